package logger

import (
	"fmt"

	"github.com/festivalops/offer-api/internal/config"
	"github.com/festivalops/offer-api/internal/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a new structured logger
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

// WithRequest adds request context to logger
func WithRequest(logger *zap.Logger, method, path, requestID string) *zap.Logger {
	return logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
}

// WithOffer adds offer context and the recalculation mode to logger
func WithOffer(logger *zap.Logger, offerID uuid.UUID, mode pricing.RecalcMode) *zap.Logger {
	return logger.With(
		zap.String("offer_id", offerID.String()),
		zap.Stringer("recalc_mode", mode),
	)
}

// Derivation summarizes a derivation pass
func Derivation(result pricing.DeriveResult) zap.Field {
	return zap.Object("derivation", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddInt("lines", len(result.Lines))
		enc.AddInt("recomputed", len(result.Recomputed))
		enc.AddInt("synthesized", len(result.Synthesized))
		enc.AddInt("forecasts", len(result.Forecasts))
		return nil
	}))
}

// Totals logs the money figures of an offer
func Totals(t pricing.Totals) zap.Field {
	return zap.Object("totals", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddFloat64("subtotal_excl_btw", t.Subtotal)
		enc.AddFloat64("discount", t.DiscountAmount)
		enc.AddFloat64("btw", t.TaxAmount)
		enc.AddFloat64("total_incl_btw", t.Total)
		return nil
	}))
}
