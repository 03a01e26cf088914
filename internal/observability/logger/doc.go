// Package logger provee un logger estructurado (zap) como singleton de la
// aplicación, con propagación por contexto y campos tipados para el dominio
// de reportes (identity_id, receipt_id, provider, etc).
//
// Uso típico:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Dispatch"))
//	log.Info("report accepted", logger.IdentityID(id))
package logger
