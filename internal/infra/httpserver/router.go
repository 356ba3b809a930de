package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/greenaudit/esg-insight/internal/application/analysis"
	appauth "github.com/greenaudit/esg-insight/internal/application/auth"
	appcompliance "github.com/greenaudit/esg-insight/internal/application/compliance"
	domai "github.com/greenaudit/esg-insight/internal/domain/ai"
	domanalysis "github.com/greenaudit/esg-insight/internal/domain/analysis"
	domcompliance "github.com/greenaudit/esg-insight/internal/domain/compliance"
	"github.com/greenaudit/esg-insight/internal/domain/users"
	"github.com/greenaudit/esg-insight/internal/middleware"
)

const maxUploadBytes = 10 << 20

type Router struct {
	analysisSvc   *appanalysis.Service
	complianceSvc *appcompliance.Service
	authSvc       *appauth.Service
	logger        *zap.Logger
}

// Options configures the cross-cutting middleware on the router.
type Options struct {
	Health      map[string]middleware.HealthChecker
	RateRPS     float64
	RateBurst   int
	EnforceAuth bool
}

func NewRouter(analysisSvc *appanalysis.Service, complianceSvc *appcompliance.Service, authSvc *appauth.Service, logger *zap.Logger, opts Options) http.Handler {
	r := &Router{
		analysisSvc:   analysisSvc,
		complianceSvc: complianceSvc,
		authSvc:       authSvc,
		logger:        logger,
	}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.Logging(logger))
	mux.Use(middleware.MetricsMiddleware)
	if opts.RateRPS > 0 {
		mux.Use(middleware.RateLimit(opts.RateRPS, opts.RateBurst))
	}

	mux.Get("/api/health", middleware.HealthHandler(opts.Health))
	mux.Get("/api/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/auth/register", r.wrap(r.handleRegister))
		rt.Post("/auth/login", r.wrap(r.handleLogin))

		rt.Group(func(rt chi.Router) {
			rt.Use(middleware.JWTAuth(authSvc, opts.EnforceAuth))

			rt.Post("/analyze", r.wrap(r.handleAnalyze))
			rt.Post("/analyze/upload", r.wrap(r.handleAnalyzeUpload))
			rt.Get("/history", r.wrap(r.handleHistory))
			rt.Get("/analysis/{id}", r.wrap(r.handleGetAnalysis))
			rt.Delete("/analysis/{id}", r.wrap(r.handleDeleteAnalysis))
			rt.Post("/compliance/check", r.wrap(r.handleComplianceCheck))
			rt.Get("/compliance/results/{analysisId}", r.wrap(r.handleLatestResult))
			rt.Get("/compliance/rules", r.wrap(r.handleRules))
			rt.Put("/compliance/rules/{id}", r.wrap(r.handleUpdateRule))
			rt.Get("/stats", r.wrap(r.handleStats))
			rt.Get("/risk-alerts", r.wrap(r.handleRiskAlerts))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// httpError carries a status code for client errors
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(msg string) error { return &httpError{status: http.StatusBadRequest, msg: msg} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var herr *httpError
		switch {
		case errors.As(err, &herr):
			writeError(w, herr.status, herr.msg)
		case errors.Is(err, domanalysis.ErrNotFound):
			writeError(w, http.StatusNotFound, "analysis not found")
		case errors.Is(err, domcompliance.ErrRuleNotFound):
			writeError(w, http.StatusNotFound, "rule not found")
		case errors.Is(err, users.ErrExists):
			writeError(w, http.StatusConflict, "username or email already registered")
		case errors.Is(err, appauth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid username or password")
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "model quota exceeded")
		case errors.Is(err, appanalysis.ErrEmptyText):
			writeError(w, http.StatusBadRequest, "text is required")
		case errors.Is(err, appanalysis.ErrUnsupportedFile):
			writeError(w, http.StatusBadRequest, "unsupported file type")
		default:
			r.logger.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /api/analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text     string `json:"text"`
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}

	rec, err := r.analysisSvc.AnalyzeText(req.Context(), body.Text, body.FileName)
	if err != nil {
		return err
	}
	middleware.IncrementAnalyses()
	if rec.Source == "local-backup" {
		middleware.IncrementAnalysesFallback()
	}
	return writeJSON(w, http.StatusOK, rec)
}

// POST /api/analyze/upload
func (r *Router) handleAnalyzeUpload(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return badRequest("invalid multipart body or file too large")
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return badRequest("file is required")
	}
	defer file.Close()

	if err := middleware.ValidateUploadName(header.Filename); err != nil {
		return badRequest(err.Error())
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	rec, err := r.analysisSvc.AnalyzeUpload(req.Context(), header.Filename, data)
	if err != nil {
		return err
	}
	middleware.IncrementAnalyses()
	if rec.Source == "local-backup" {
		middleware.IncrementAnalysesFallback()
	}
	return writeJSON(w, http.StatusOK, rec)
}

// GET /api/history?page=&limit=&search=&status=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	status := q.Get("status")
	if err := middleware.ValidateStatus(status); err != nil {
		return badRequest(err.Error())
	}

	pageData, err := r.analysisSvc.History(req.Context(), domanalysis.ListQuery{
		Page:   page,
		Limit:  middleware.ValidateLimit(limit),
		Search: middleware.SanitizeString(q.Get("search")),
		Status: status,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, pageData)
}

// GET /api/analysis/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	rec, err := r.analysisSvc.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

// DELETE /api/analysis/{id}
func (r *Router) handleDeleteAnalysis(w http.ResponseWriter, req *http.Request) error {
	if err := r.analysisSvc.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"message": "analysis deleted"})
}

// POST /api/compliance/check
// Body: {"analysisId": "<id>", "rules": [...]}; rules optional
func (r *Router) handleComplianceCheck(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		AnalysisID string               `json:"analysisId"`
		Rules      []domcompliance.Rule `json:"rules"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	if body.AnalysisID == "" {
		return badRequest("analysisId is required")
	}

	report, err := r.complianceSvc.Check(req.Context(), appcompliance.CheckCommand{
		AnalysisID: body.AnalysisID,
		Rules:      body.Rules,
	})
	if err != nil {
		return err
	}
	middleware.IncrementChecks()
	return writeJSON(w, http.StatusOK, report)
}

// GET /api/compliance/results/{analysisId}
func (r *Router) handleLatestResult(w http.ResponseWriter, req *http.Request) error {
	result, err := r.complianceSvc.LatestResult(req.Context(), chi.URLParam(req, "analysisId"))
	if err != nil {
		return err
	}
	if result == nil {
		return &httpError{status: http.StatusNotFound, msg: "no compliance result for analysis"}
	}
	return writeJSON(w, http.StatusOK, result)
}

// GET /api/compliance/rules
func (r *Router) handleRules(w http.ResponseWriter, req *http.Request) error {
	rules, err := r.complianceSvc.Rules(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"rules": rules})
}

// PUT /api/compliance/rules/{id}
func (r *Router) handleUpdateRule(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRuleID(id); err != nil {
		return badRequest(err.Error())
	}

	var upd domcompliance.RuleUpdate
	if err := json.NewDecoder(req.Body).Decode(&upd); err != nil {
		return badRequest("invalid JSON body")
	}

	rule, err := r.complianceSvc.UpdateRule(req.Context(), id, upd)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rule)
}

// GET /api/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	stats, err := r.analysisSvc.Stats(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, stats)
}

// GET /api/risk-alerts?limit=
func (r *Router) handleRiskAlerts(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	alerts, err := r.analysisSvc.RiskAlerts(req.Context(), limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

// POST /api/auth/register
func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	if body.Username == "" || body.Email == "" || body.Password == "" {
		return badRequest("username, email and password are required")
	}

	u, err := r.authSvc.Register(req.Context(), body.Username, body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, u)
}

// POST /api/auth/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}

	u, token, err := r.authSvc.Login(req.Context(), body.Username, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": u})
}
