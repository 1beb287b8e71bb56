package endpoints

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/triagekit/triage/internal/api"
	"github.com/triagekit/triage/internal/document"
	"github.com/triagekit/triage/internal/extract"
	"github.com/triagekit/triage/internal/record"
	"github.com/triagekit/triage/internal/svcctx"
)

// maxUploadBytes caps clinical document uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// ParseEMREndpoint handles POST /api/parse-emr: multipart document upload
// in, flat validated patient record out.
type ParseEMREndpoint struct{}

func (e *ParseEMREndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/parse-emr", e.handler
}

func (e *ParseEMREndpoint) RequiresInit() bool { return true }

func (e *ParseEMREndpoint) handler(w http.ResponseWriter, r *http.Request) {
	logger := svcctx.LoggerFrom(r.Context())
	if logger != nil {
		logger = logger.With("request_id", uuid.NewString())
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if len(contents) == 0 {
		writeError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	docs := svcctx.DocumentsFrom(r.Context())
	text, err := docs.ExtractText(r.Context(), header.Filename, contents)
	if err != nil {
		// Unsupported formats, missing backends, and corrupt files are
		// all client-visible input problems.
		var unsupported *document.UnsupportedFormatError
		var capability *document.CapabilityError
		var malformed *document.MalformedInputError
		switch {
		case errors.As(err, &unsupported), errors.As(err, &capability), errors.As(err, &malformed):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			if logger != nil {
				logger.Error("document extraction failed", "file", header.Filename, "error", err)
			}
			writeError(w, http.StatusInternalServerError, "failed to extract document text")
		}
		return
	}
	if text == "" {
		writeError(w, http.StatusBadRequest, "Could not extract text from file")
		return
	}

	if logger != nil {
		logger.Info("parsing uploaded document", "file", header.Filename, "bytes", len(contents))
	}

	merged, err := svcctx.PipelineFrom(r.Context()).Extract(r.Context(), text)
	if err != nil {
		if errors.Is(err, extract.ErrNoFields) {
			writeError(w, http.StatusUnprocessableEntity,
				"No supported patient fields were found in the uploaded document.")
			return
		}
		writeError(w, http.StatusInternalServerError, "extraction failed")
		return
	}

	if logger != nil {
		logger.Info("document parsed", "file", header.Filename, "fields", len(merged))
	}
	writeJSON(w, http.StatusOK, merged)
}

func (e *ParseEMREndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "parse-emr <file>",
		Short: "Extract a patient record from a clinical document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var result record.Partial
			if err := client.PostFile(cmd.Context(), "/api/parse-emr", args[0], &result); err != nil {
				return err
			}
			return api.Output(result)
		},
	}
}
