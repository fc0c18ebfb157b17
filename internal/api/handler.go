package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/insightdelivered/payslip-converter/internal/extractor"
	"github.com/insightdelivered/payslip-converter/internal/metrics"
	"github.com/insightdelivered/payslip-converter/internal/models"
	"github.com/insightdelivered/payslip-converter/internal/parser"
	"github.com/insightdelivered/payslip-converter/internal/summary"
	"github.com/insightdelivered/payslip-converter/internal/writer"
)

// ParseResponse is the JSON response from the /api/parse endpoint.
type ParseResponse struct {
	Success    bool                  `json:"success"`
	Error      string                `json:"error,omitempty"`
	RequestID  string                `json:"requestId,omitempty"`
	Header     *models.PayslipHeader `json:"header,omitempty"`
	Overview   *summary.Overview     `json:"overview,omitempty"`
	ArtGroups  []models.ArtGroup     `json:"artGroups"`
	Pages      []models.PageOut      `json:"pages,omitempty"`
	DebugLines []models.DebugLine    `json:"debugLines,omitempty"`
	Notes      []string              `json:"notes,omitempty"`
	CSV        string                `json:"csv,omitempty"`
	Count      int                   `json:"count"`
	Version    string                `json:"version,omitempty"`
}

// SummarizeRequest is the body of /api/summarize: groups collected by a
// client, possibly from several payslips.
type SummarizeRequest struct {
	ArtGroups []models.ArtGroup `json:"artGroups"`
}

// SummarizeResponse is the JSON response from the /api/summarize endpoint.
type SummarizeResponse struct {
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
	Overview  *summary.Overview `json:"overview,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Source     parser.FragmentSource
	YTolerance float64
	Metrics    *metrics.Recorder
	Log        *zap.Logger
	Version    string
}

func (h *Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// HandleCodes lists the article-code dictionary.
func (h *Handler) HandleCodes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"codes": summary.Codes()})
}

// HandleParse accepts either an uploaded PDF in form field "file" or
// fragments already extracted by the client in form field "fragments"
// (JSON, one array per page).
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	start := time.Now()
	reqID := requestID(c)
	log := h.logger().With(zap.String("requestId", reqID))

	opts := []parser.Option{
		parser.WithYTolerance(h.YTolerance),
		parser.WithPages(c.FormValue("pages") == "true"),
		parser.WithLogger(log),
	}
	includeHeader := c.FormValue("header") != "false"

	var (
		res *parser.Result
		err error
	)
	if raw := c.FormValue("fragments"); raw != "" {
		var pages [][]models.Fragment
		if err := json.Unmarshal([]byte(raw), &pages); err != nil {
			h.Metrics.ObserveParse(metrics.SourceAPI, metrics.OutcomeBadInput, time.Since(start))
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid fragments: %v", err))
		}
		res, err = parser.New(nil, opts...).ParsePagesContext(c.UserContext(), pages)
		if err != nil {
			h.Metrics.ObserveParse(metrics.SourceAPI, metrics.OutcomeError, time.Since(start))
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}
	} else {
		var (
			status int
			msg    string
		)
		if res, status, msg = h.parseUpload(c, log, opts); res == nil {
			h.Metrics.ObserveParse(metrics.SourceAPI, outcomeFor(status), time.Since(start))
			return writeError(c, status, msg)
		}
	}

	csvText, err := writer.CSVString(res, includeHeader)
	if err != nil {
		h.Metrics.ObserveParse(metrics.SourceAPI, metrics.OutcomeError, time.Since(start))
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	h.Metrics.ObserveParse(metrics.SourceAPI, metrics.OutcomeOK, time.Since(start))
	h.Metrics.ObserveOverview(res.Overview)
	log.Info("payslip parsed",
		zap.Int("artGroups", len(res.Groups)),
		zap.Int("rows", res.RowCount()),
		zap.Duration("elapsed", time.Since(start)))

	header := res.Header
	return c.JSON(ParseResponse{
		Success:    true,
		RequestID:  reqID,
		Header:     &header,
		Overview:   res.Overview,
		ArtGroups:  res.Groups,
		Pages:      res.Pages,
		DebugLines: res.DebugLines,
		Notes:      res.Notes,
		CSV:        csvText,
		Count:      res.RowCount(),
		Version:    h.Version,
	})
}

// parseUpload saves the uploaded PDF to a temp file and runs the pipeline
// on it. On failure the result is nil and status/msg describe the error.
func (h *Handler) parseUpload(c *fiber.Ctx, log *zap.Logger, opts []parser.Option) (*parser.Result, int, string) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.StatusBadRequest, "No file uploaded. Use form field 'file' or 'fragments'."
	}

	// Validate it's a PDF
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		return nil, fiber.StatusUnsupportedMediaType, "Only PDF files are supported."
	}

	tmpFile, err := os.CreateTemp("", "payslip-*.pdf")
	if err != nil {
		return nil, fiber.StatusInternalServerError, "Failed to create temp file."
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(file, tmpPath); err != nil {
		return nil, fiber.StatusInternalServerError, "Failed to save uploaded file."
	}

	log = log.With(zap.String("file", file.Filename))
	res, err := parser.New(h.Source, opts...).ParseFile(c.UserContext(), tmpPath)
	if err != nil {
		log.Warn("parse failed", zap.Error(err))
		switch {
		case errors.Is(err, extractor.ErrNotPDF):
			return nil, fiber.StatusUnsupportedMediaType, "The uploaded file is not a PDF."
		case errors.Is(err, extractor.ErrNoText), errors.Is(err, parser.ErrNoPages):
			return nil, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err)
		default:
			return nil, fiber.StatusInternalServerError, fmt.Sprintf("Parsing failed: %v", err)
		}
	}
	return res, 0, ""
}

// HandleSummarize builds the overview for article groups posted as JSON.
func (h *Handler) HandleSummarize(c *fiber.Ctx) error {
	var req SummarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(SummarizeResponse{
			Success: false,
			Error:   fmt.Sprintf("Invalid body: %v", err),
		})
	}

	ov := summary.Summarize(req.ArtGroups)
	h.Metrics.ObserveOverview(ov)
	return c.JSON(SummarizeResponse{
		Success:   true,
		RequestID: requestID(c),
		Overview:  ov,
	})
}

func outcomeFor(status int) string {
	switch status {
	case fiber.StatusUnsupportedMediaType:
		return metrics.OutcomeNotPDF
	case fiber.StatusUnprocessableEntity:
		return metrics.OutcomeNoText
	case fiber.StatusBadRequest:
		return metrics.OutcomeBadInput
	}
	return metrics.OutcomeError
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ParseResponse{
		Success:   false,
		Error:     msg,
		RequestID: requestID(c),
	})
}
