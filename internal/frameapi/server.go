// Package frameapi serves the $DEGEN allowance frame over HTTP.
package frameapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MarkoPoloResearchLab/degenframe/internal/degen"
	"github.com/MarkoPoloResearchLab/degenframe/internal/farcaster"
	"github.com/MarkoPoloResearchLab/degenframe/internal/metrics"
	"github.com/MarkoPoloResearchLab/degenframe/internal/render"
	"github.com/MarkoPoloResearchLab/degenframe/internal/telemetry"
	"github.com/MarkoPoloResearchLab/degenframe/pkg/frame"
	"github.com/a-h/templ"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	rootPath        = "/"
	framesPath      = "/frames"
	debugPath       = "/debug"
	healthPath      = "/healthz"
	metricsPath     = "/metrics"
	stateQueryParam = "s"

	maxPayloadBytes = 64 << 10
	shutdownTimeout = 5 * time.Second
)

// Run boots the frame server using the supplied configuration.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("zap init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry())
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := shutdownTracing(shutdownCtx); shutdownErr != nil {
			logger.Warn("telemetry shutdown error", zap.Error(shutdownErr))
		}
	}()

	service, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	handler := &httpHandler{
		logger:  logger,
		service: service,
		cfg:     cfg,
	}
	router := setupRouter(cfg, handler)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("degenframe listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("public_url", cfg.PublicURL),
			zap.String("validation_mode", cfg.ValidationMode),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func newService(cfg Config, logger *zap.Logger) (*frame.Service, error) {
	degenClient, err := degen.New(degen.Config{
		BaseURL: cfg.DegenBaseURL,
		Timeout: cfg.UpstreamTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("degen client: %w", err)
	}
	codec, err := newStateCodec(cfg)
	if err != nil {
		return nil, err
	}
	service, err := frame.NewService(
		degenClient,
		degenClient,
		newValidator(cfg, logger),
		codec,
		frame.WithOperationLogger(newZapOperationLogger(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("frame service: %w", err)
	}
	return service, nil
}

func newValidator(cfg Config, logger *zap.Logger) frame.ActionValidator {
	if cfg.ValidationMode == ValidationModeInsecure {
		logger.Warn("frame actions are not verified against a hub")
		return farcaster.InsecureValidator{}
	}
	return farcaster.NewHubValidator(farcaster.HubConfig{
		HubURL:  cfg.HubURL,
		Timeout: cfg.UpstreamTimeout,
	}, logger)
}

func newStateCodec(cfg Config) (frame.StateCodec, error) {
	if cfg.StateSigningKey == "" {
		return farcaster.JSONStateCodec{}, nil
	}
	codec, err := farcaster.NewSignedStateCodec([]byte(cfg.StateSigningKey))
	if err != nil {
		return nil, fmt.Errorf("state codec: %w", err)
	}
	return codec, nil
}

func setupRouter(cfg Config, handler *httpHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	router.GET(healthPath, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET(metricsPath, gin.WrapH(metrics.Handler()))

	router.GET(rootPath, handler.handleInitialFrame)
	router.POST(framesPath, handler.handleFrameAction)

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Origin", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == defaultAllowedOrigin) {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	return config
}

type httpHandler struct {
	logger  *zap.Logger
	service *frame.Service
	cfg     Config
}

func (handler *httpHandler) handleInitialFrame(ctx *gin.Context) {
	result, err := handler.service.Handle(ctx.Request.Context(), "", nil)
	if err != nil {
		handler.respondError(ctx, rootPath, err)
		return
	}
	handler.respondFrame(ctx, rootPath, result)
}

func (handler *httpHandler) handleFrameAction(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxPayloadBytes))
	if err != nil {
		metrics.ObserveFrame(framesPath, metrics.OutcomeClientError, 0)
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "unreadable body"))
		return
	}
	rawState := ctx.Query(stateQueryParam)
	if rawState == "" {
		rawState = farcaster.StateFromBody(body)
	}
	result, err := handler.service.Handle(ctx.Request.Context(), rawState, body)
	if err != nil {
		handler.respondError(ctx, framesPath, err)
		return
	}
	handler.respondFrame(ctx, framesPath, result)
}

func (handler *httpHandler) respondFrame(ctx *gin.Context, route string, result frame.Result) {
	imageURL, err := render.ImageDataURI(ctx.Request.Context(), result.View)
	if err != nil {
		handler.logger.Error("card render failed", zap.Error(err), zap.String("request_id", requestID(ctx.Request.Context())))
		metrics.ObserveFrame(route, metrics.OutcomeUpstreamError, 0)
		ctx.JSON(http.StatusInternalServerError, errorResponse("render_error", "card render failed"))
		return
	}
	handler.logger.Info("frame state",
		zap.String("request_id", requestID(ctx.Request.Context())),
		zap.String("active", result.State.Active),
		zap.Int("total_button_presses", result.State.TotalButtonPresses),
	)
	outcome := metrics.OutcomeOK
	if result.View.Intro {
		outcome = metrics.OutcomeIntro
	}
	metrics.ObserveFrame(route, outcome, len(result.View.Cards))

	page := render.Page{
		ImageURL:    imageURL,
		AspectRatio: render.ImageAspectRatio,
		PostURL:     handler.cfg.PostURL(result.EncodedState),
		State:       result.EncodedState,
		InputText:   render.InputPlaceholder,
		Buttons:     render.DefaultButtons(),
		DebugURL:    handler.cfg.DebugURL(),
	}
	templ.Handler(render.FramePage(page)).ServeHTTP(ctx.Writer, ctx.Request)
}

func (handler *httpHandler) respondError(ctx *gin.Context, route string, err error) {
	if frame.IsClientError(err) {
		metrics.ObserveFrame(route, metrics.OutcomeClientError, 0)
		code := "invalid_payload"
		if errors.Is(err, frame.ErrInvalidState) {
			code = "invalid_state"
		}
		ctx.JSON(http.StatusBadRequest, errorResponse(code, err.Error()))
		return
	}
	handler.logger.Error("frame request failed", zap.Error(err), zap.String("request_id", requestID(ctx.Request.Context())))
	metrics.ObserveFrame(route, metrics.OutcomeUpstreamError, 0)
	ctx.JSON(http.StatusBadGateway, errorResponse("upstream_error", "upstream request failed"))
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}
