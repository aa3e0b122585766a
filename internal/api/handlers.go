package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/blocksim/internal/config"
	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/export"
	"github.com/san-kum/blocksim/internal/lti"
	"github.com/san-kum/blocksim/internal/metrics"
	"github.com/san-kum/blocksim/internal/network"
)

const (
	msgInvalidDenominator = "Invalid denominator."
	msgImproper           = "Improper transfer function (more zeros than poles): not simulable."
)

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.diagram() {
		s.simulateDiagram(w, r, &req)
		return
	}
	s.simulateTF(w, r, &req)
}

func (s *Server) simulateDiagram(w http.ResponseWriter, r *http.Request, req *SimulateRequest) {
	sim := s.cfg.Sim()
	sim.Duration = config.Sanitize(req.TFinal, s.cfg.Simulation.Duration)
	sim.Dt = config.Sanitize(req.Dt, s.cfg.Simulation.Dt)
	if n := sim.Steps(); s.cfg.Server.MaxSteps > 0 && n > s.cfg.Server.MaxSteps {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("too many steps: %d exceeds limit %d", n, s.cfg.Server.MaxSteps))
		return
	}

	nw := network.New(req.graph())
	for _, m := range metrics.StepResponse() {
		nw.AddMetric(m)
	}
	res, err := nw.Run(sim)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}

	log := s.entry(r)
	for _, warn := range res.Warnings {
		log.WithError(warn).Warn("diagram")
	}
	if res.Solver.Unconverged > 0 {
		log.WithFields(logrus.Fields{
			"unconverged": res.Solver.Unconverged,
			"resolutions": res.Solver.Resolutions,
		}).Debug("algebraic loop did not converge")
	}
	writeJSON(w, http.StatusOK, export.NewSeries(res))
}

func (s *Server) simulateTF(w http.ResponseWriter, r *http.Request, req *SimulateRequest) {
	tFinal := config.Sanitize(req.TFinal, s.cfg.Simulation.FinalTime)
	n := req.NPoints
	if n == 0 {
		n = s.cfg.Simulation.Points
	}
	if s.cfg.Server.MaxSteps > 0 && n > s.cfg.Server.MaxSteps {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("too many points: %d exceeds limit %d", n, s.cfg.Server.MaxSteps))
		return
	}

	num := req.Num
	if num == nil {
		num = []float64{1}
	}
	res, err := lti.StepResponse(lti.New(num, req.Den), tFinal, n)
	switch {
	case errors.Is(err, dynamo.ErrImproper):
		writeWarning(w, msgImproper)
		return
	case errors.Is(err, dynamo.ErrInvalidDenominator):
		writeError(w, http.StatusBadRequest, msgInvalidDenominator)
		return
	case err != nil:
		writeError(w, statusOf(err), err.Error())
		return
	}
	res.Metrics = metrics.Evaluate(res, metrics.StepResponse()...)
	writeJSON(w, http.StatusOK, export.NewSeries(res))
}

func (s *Server) handleDiscretize(w http.ResponseWriter, r *http.Request) {
	var req DiscretizeRequest
	if !s.decode(w, r, &req) {
		return
	}

	ts := req.Ts
	if ts <= 0 {
		ts = s.cfg.Simulation.SamplePeriod
	}
	if n := lti.Horizon(req.Poles) / ts; s.cfg.Server.MaxSteps > 0 && n > float64(s.cfg.Server.MaxSteps) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("too many samples: %.0f exceeds limit %d", n, s.cfg.Server.MaxSteps))
		return
	}
	d, err := lti.DiscreteResponse(req.Zeros, req.Poles, ts)
	switch {
	case errors.Is(err, dynamo.ErrImproper):
		writeWarning(w, msgImproper)
		return
	case err != nil:
		writeError(w, statusOf(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, export.NewDiscreteSeries(d))
}

type reduceResponse struct {
	Num    []float64 `json:"num"`
	Den    []float64 `json:"den"`
	Text   string    `json:"text"`
	DCGain *float64  `json:"dc_gain,omitempty"`
}

func (s *Server) handleReduce(w http.ResponseWriter, r *http.Request) {
	var req ReduceRequest
	if !s.decode(w, r, &req) {
		return
	}

	g := (&SimulateRequest{Blocks: req.Blocks, Links: req.Links}).graph()
	tf, err := network.Reduce(g)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}

	resp := reduceResponse{Num: tf.Num, Den: tf.Den, Text: tf.String()}
	if dc := tf.DCGain(); !math.IsNaN(dc) && !math.IsInf(dc, 0) {
		resp.DCGain = &dc
	}
	writeJSON(w, http.StatusOK, resp)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, dynamo.ErrInvalidConfig),
		errors.Is(err, dynamo.ErrInvalidDenominator):
		return http.StatusBadRequest
	case errors.Is(err, dynamo.ErrCyclic),
		errors.Is(err, dynamo.ErrImproper):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
