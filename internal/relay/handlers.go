package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/OpTi9/MENA/internal/walletfile"
	"github.com/OpTi9/MENA/pkg/types"
)

// isoMillis matches JavaScript's Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z"

// handleConsolidate validates a claim and forwards it to the registry,
// relaying the registry's status, content type and body unchanged.
func (s *Server) handleConsolidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		s.internalError(w, fmt.Errorf("read request body: %w", err))
		return
	}
	if len(body) > maxBodySize {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "Request body too large"})
		return
	}

	claim, err := parseClaim(body)
	if err != nil {
		s.logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("Rejected claim")
		writeJSON(w, http.StatusBadRequest, err)
		return
	}

	status, contentType, respBody, err := s.forward(r, claim)
	if err != nil {
		s.internalError(w, err)
		return
	}

	s.logger.Info().
		Str("donor", claim.Donor).
		Int("status", status).
		Msg("Registry responded")
	s.logger.Debug().Str("donor", claim.Donor).RawJSON("data", asLogJSON(respBody)).Msg("Registry response body")

	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	w.Write(respBody)
}

// parseClaim extracts the claim fields from a JSON body. Presence is
// checked before types: a field that is missing, null, false, 0 or ""
// counts as missing.
func parseClaim(body []byte) (types.Claim, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(body)) > 0 {
		var parsed any
		if err := json.Unmarshal(body, &parsed); err != nil {
			return types.Claim{}, &ValidationError{Message: msgInvalidJSON}
		}
		if obj, ok := parsed.(map[string]any); ok {
			fields = obj
		}
	}

	names := []string{"recipient", "donor", "signature"}
	received := make(map[string]bool, len(names))
	allPresent := true
	for _, name := range names {
		received[name] = truthy(fields[name])
		allPresent = allPresent && received[name]
	}
	if !allPresent {
		return types.Claim{}, &ValidationError{Message: msgMissingParams, Received: received}
	}

	values := make(map[string]string, len(names))
	for _, name := range names {
		s, ok := fields[name].(string)
		if !ok {
			return types.Claim{}, &ValidationError{
				Message:  msgInvalidTypes,
				Expected: map[string]string{"recipient": "string", "donor": "string", "signature": "string"},
			}
		}
		values[name] = s
	}
	return types.Claim{
		Recipient: values["recipient"],
		Donor:     values["donor"],
		Signature: values["signature"],
	}, nil
}

// truthy reports whether a decoded JSON value is truthy.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

// forward posts the claim to the registry's donate_to route. The
// signature is placed in the path without escaping.
func (s *Server) forward(r *http.Request, claim types.Claim) (int, string, []byte, error) {
	recipient, err := EncodeURIComponent(claim.Recipient)
	if err != nil {
		return 0, "", nil, fmt.Errorf("encode recipient: %w", err)
	}
	donor, err := EncodeURIComponent(claim.Donor)
	if err != nil {
		return 0, "", nil, fmt.Errorf("encode donor: %w", err)
	}
	url := s.registryURL + "/donate_to/" + recipient + "/" + donor + "/" + claim.Signature
	s.logger.Debug().Str("url", url).Msg("Forwarding claim")

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return 0, "", nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.upstream.Do(req)
	if err != nil {
		return 0, "", nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxUpstream+1))
	if err != nil {
		return 0, "", nil, fmt.Errorf("read upstream response: %w", err)
	}
	if int64(len(data)) > s.maxUpstream {
		return 0, "", nil, fmt.Errorf("upstream response exceeds %d bytes", s.maxUpstream)
	}
	return resp.StatusCode, resp.Header.Get("Content-Type"), data, nil
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("Relay request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Error:     "Internal server error",
		Details:   err.Error(),
		Timestamp: s.now().UTC().Format(isoMillis),
	})
}

// asLogJSON returns data if it is valid JSON, otherwise data as a JSON string.
func asLogJSON(data []byte) []byte {
	if json.Valid(data) {
		return data
	}
	quoted, _ := json.Marshal(string(data))
	return quoted
}

// handleTemplate serves a blank wallet CSV for ?count=N wallets.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
		return
	}

	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Please enter a valid number of wallets"})
		return
	}
	data, err := walletfile.Template(count)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+walletfile.TemplateFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
