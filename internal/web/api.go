package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/model"
	"DrawSentinel/internal/strategy"
)

const defaultDrawLimit = 20

type algorithmInfo struct {
	Name       string `json:"name"`
	Family     string `json:"family"`
	MinHistory int    `json:"min_history"`
	Randomized bool   `json:"randomized"`
}

type apiController struct {
	s *Server
}

func newAPIController(g *gin.RouterGroup, s *Server) *apiController {
	a := &apiController{s: s}
	a.initRouter(g)
	return a
}

func (a *apiController) initRouter(g *gin.RouterGroup) {
	g.GET("/draws", a.draws)
	g.GET("/stats", a.stats)
	g.GET("/algorithms", a.algorithms)
	g.GET("/predict", a.predict)
	g.GET("/backtest", a.backtest)
	g.GET("/weights", a.weights)
	g.POST("/refresh", a.refresh)
}

// history returns the held draws, collecting first if nothing is loaded yet.
func (a *apiController) history(c *gin.Context) ([]model.Draw, model.DatasetStats, error) {
	if draws, stats := a.s.Collector.Latest(); len(draws) > 0 {
		return draws, stats, nil
	}
	return a.s.Collector.Collect(c.Request.Context())
}

func positiveQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}

func statusFor(err error) int {
	if errors.Is(err, strategy.ErrInsufficientHistory) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func (a *apiController) draws(c *gin.Context) {
	limit, err := positiveQuery(c, "limit", defaultDrawLimit)
	if err != nil {
		jsonError(c, http.StatusBadRequest, err)
		return
	}
	draws, _, err := a.history(c)
	if err != nil {
		jsonError(c, statusFor(err), err)
		return
	}
	if limit < len(draws) {
		draws = draws[len(draws)-limit:]
	}
	// newest first
	out := make([]model.Draw, len(draws))
	for i, d := range draws {
		out[len(draws)-1-i] = d
	}
	c.JSON(http.StatusOK, out)
}

func (a *apiController) stats(c *gin.Context) {
	_, stats, err := a.history(c)
	if err != nil {
		jsonError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (a *apiController) algorithms(c *gin.Context) {
	out := make([]algorithmInfo, 0, len(a.s.Engine.Algorithms))
	for _, alg := range a.s.Engine.Algorithms {
		out = append(out, algorithmInfo{
			Name:       alg.Name,
			Family:     alg.Family,
			MinHistory: alg.MinHistory,
			Randomized: alg.Randomized,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (a *apiController) predict(c *gin.Context) {
	draws, _, err := a.history(c)
	if err != nil {
		jsonError(c, statusFor(err), err)
		return
	}
	pred, err := a.s.Engine.WithWeights(a.s.Weights.Get()).Predict(draws)
	if err != nil {
		jsonError(c, statusFor(err), err)
		return
	}
	if err := a.s.Recorder.RecordPrediction(pred); err != nil {
		logging.Errorf("record prediction: %v", err)
	}
	c.JSON(http.StatusOK, pred)
}

func (a *apiController) backtest(c *gin.Context) {
	window, err := positiveQuery(c, "window", a.s.Window)
	if err != nil {
		jsonError(c, http.StatusBadRequest, err)
		return
	}
	draws, _, err := a.history(c)
	if err != nil {
		jsonError(c, statusFor(err), err)
		return
	}
	report, err := a.s.Engine.Backtest(c.Request.Context(), draws, window)
	if err != nil {
		jsonError(c, statusFor(err), err)
		return
	}
	if err := a.s.Recorder.RecordBacktest(report); err != nil {
		logging.Errorf("record backtest: %v", err)
	}
	c.JSON(http.StatusOK, report)
}

func (a *apiController) weights(c *gin.Context) {
	c.JSON(http.StatusOK, a.s.Weights.GetState())
}

func (a *apiController) refresh(c *gin.Context) {
	_, stats, err := a.s.Collector.Collect(c.Request.Context())
	if err != nil {
		jsonError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
