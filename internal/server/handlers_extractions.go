package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-profiler/internal/ingestion"
	"github.com/jonathan/resume-profiler/internal/parsing"
	"github.com/jonathan/resume-profiler/internal/scoring"
	"github.com/jonathan/resume-profiler/internal/server/middleware"
	"github.com/jonathan/resume-profiler/internal/types"
	schemafiles "github.com/jonathan/resume-profiler/schemas"
)

// Upload limits
const (
	MaxPDFBytes  = 10 << 20
	MaxJSONBytes = 16 << 20
)

const defaultUploadName = "upload.pdf"

// handleCreateExtraction runs the extraction pipeline on an uploaded document
func (s *Server) handleCreateExtraction(w http.ResponseWriter, r *http.Request) {
	src, err := s.readSource(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result := s.extractor.ParseSource(r.Context(), src, parsing.Options{
		AuthToken: middleware.GetToken(r),
	})

	response := newExtractResponse(result)

	if userID, err := middleware.GetUserID(r); err == nil && s.store != nil {
		id, err := s.store.SaveResult(r.Context(), userID, src.Name(), result)
		if err != nil {
			// The result is still returned; only the stored copy is missing.
			s.logger.Error("server.store.failed", "error", err, "source", src.Name())
		} else {
			response.ID = id.String()
		}
	}

	s.jsonResponse(w, http.StatusOK, response)
}

// readSource builds a document source from a JSON or PDF request body
func (s *Server) readSource(w http.ResponseWriter, r *http.Request) (ingestion.Source, error) {
	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, &ErrUnsupportedMediaType{ContentType: ct}
		}
		mediaType = parsed
	}

	switch mediaType {
	case "application/pdf":
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPDFBytes))
		if err != nil {
			return nil, bodyError(err, MaxPDFBytes)
		}
		if len(data) == 0 {
			return nil, &ErrValidation{Field: "body", Message: "empty PDF upload"}
		}
		return ingestion.NewPDFSource(uploadName(r), data), nil

	case "application/json":
		var req types.ExtractRequest
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBytes))
		if err := decoder.Decode(&req); err != nil {
			return nil, bodyError(err, MaxJSONBytes)
		}
		if err := req.Validate(); err != nil {
			return nil, toValidationError(err)
		}
		return ingestion.NewStaticSource(req.SourceName, req.Pages), nil

	default:
		return nil, &ErrUnsupportedMediaType{ContentType: mediaType}
	}
}

func bodyError(err error, limit int64) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &ErrPayloadTooLarge{Limit: limit}
	}
	return &ErrValidation{Field: "body", Message: "invalid request body"}
}

// toValidationError reports the first failed validator rule
func toValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Namespace(), Message: ve.Tag()}
	}
	return &ErrValidation{Message: "invalid request"}
}

// uploadName takes ?name= when it is a plain file name
func uploadName(r *http.Request) string {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" || len(name) > 255 || strings.ContainsAny(name, `/\`) {
		return defaultUploadName
	}
	return name
}

func newExtractResponse(result types.ParsingResult) types.ExtractResponse {
	tier := scoring.Tier(result.Confidence)
	return types.ExtractResponse{
		Result:          result,
		ConfidenceTier:  tier,
		ConfidenceLabel: tier.Label(),
	}
}

// handleGetExtraction returns a stored result owned by the caller
func (s *Server) handleGetExtraction(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStoreUnavailable)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stored, err := s.store.GetResult(r.Context(), id, userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if stored == nil {
		s.writeError(w, &ErrNotFound{Resource: "extraction", ID: id.String()})
		return
	}

	response := newExtractResponse(stored.Result)
	response.ID = stored.ID.String()
	s.jsonResponse(w, http.StatusOK, response)
}

// handleListExtractions lists the caller's stored results, newest first
func (s *Server) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStoreUnavailable)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = parsed
	}

	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summaries, err := s.store.ListResults(r.Context(), userID, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"extractions": summaries,
		"count":       len(summaries),
	})
}

// handleDeleteExtraction removes a stored result owned by the caller
func (s *Server) handleDeleteExtraction(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrStoreUnavailable)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.store.DeleteResult(r.Context(), id, userID); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSchema serves one of the embedded JSON Schemas
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data, err := schemafiles.Read(name)
	if err != nil {
		s.writeError(w, &ErrNotFound{Resource: "schema", ID: name})
		return
	}

	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("http.write_failed", "error", err)
	}
}
