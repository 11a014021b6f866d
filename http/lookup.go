package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/suppfetch"
)

// lookup returns a handler running lookups in mode.
func (s *Server) lookup(mode suppfetch.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r.URL.Query(), mode)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		result, err := s.Service.Lookup(r.Context(), q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSONStatus(w, result, http.StatusOK)
	}
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query(), suppfetch.ModeContent)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	o, err := s.Service.Overview(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONStatus(w, o, http.StatusOK)
}

type askResponse struct {
	Query    string `json:"query"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Source   string `json:"source"`
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	if s.Asker == nil {
		writeJSONStatus(w, errorResponse{Error: "Question answering is not configured."}, http.StatusNotImplemented)
		return
	}

	params := r.URL.Query()
	q, err := parseQuery(params, suppfetch.ModeContent)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	question := strings.TrimSpace(params.Get("question"))
	if question == "" {
		s.writeError(w, r, suppfetch.Errorf(suppfetch.EINVALID, "Please provide a question parameter."))
		return
	}

	o, err := s.Service.Overview(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	answer, err := s.Asker.Ask(r.Context(), o, question)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSONStatus(w, askResponse{
		Query:    o.Query,
		Question: question,
		Answer:   answer,
		Source:   o.URL,
	}, http.StatusOK)
}

// parseQuery reads the lookup parameters shared by every endpoint.
// fields may be comma separated and repeated; summary set without a value
// counts as true; maxResults must be a positive integer.
func parseQuery(params url.Values, mode suppfetch.Mode) (*suppfetch.Query, error) {
	q := &suppfetch.Query{
		Text:   params.Get("query"),
		Fields: suppfetch.SanitizeFields(params["fields"]...),
		Mode:   mode,
	}

	if values, ok := params["summary"]; ok {
		v := strings.TrimSpace(values[0])
		if v == "" {
			q.Summarize = true
		} else {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, suppfetch.Errorf(suppfetch.EINVALID, "summary must be a boolean")
			}
			q.Summarize = b
		}
	}

	if v := params.Get("maxResults"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, suppfetch.Errorf(suppfetch.EINVALID, "maxResults must be a positive integer")
		}
		q.MaxResults = n
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
