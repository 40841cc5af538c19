package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yanizio/adept-login/internal/authapi"
	"github.com/yanizio/adept-login/internal/form"
	"github.com/yanizio/adept-login/internal/login"
	"github.com/yanizio/adept-login/internal/metrics"
)

/*──────────────────────────── Page handlers ────────────────────────────────*/

func (c *Component) handleLoginGET(w http.ResponseWriter, r *http.Request) {
	id, ctl := c.pages.Create()
	c.render(w, http.StatusOK, id, ctl.Snapshot())
}

func (c *Component) handleLoginPOST(w http.ResponseWriter, r *http.Request) {
	vals, err := form.ParseSubmission(r)
	if err != nil {
		c.badSubmission(w, r, err)
		return
	}

	id := vals.Get(pageIDName)
	ctl, ok := c.pages.Get(id)
	if !ok {
		// Expired or forged page: carry on with a fresh one so the user’s
		// input is not lost.
		c.log.Debugw("login page unknown, starting fresh", "page_id", id)
		id, ctl = c.pages.Create()
	}

	snap := ctl.Snapshot()
	for _, f := range login.Fields {
		if _, posted := vals[string(f)]; !posted {
			continue
		}
		if v := vals.Get(string(f)); v != fieldValue(snap.Credentials, f) {
			ctl.UpdateField(f, v)
		}
	}

	// The remote call belongs to the page view, not to this request: a
	// browser that aborts the navigation on a second click must not cancel
	// the only login in flight.  auth.timeout bounds it.
	res, err := ctl.Submit(context.WithoutCancel(r.Context()))
	if errors.Is(err, login.ErrSubmitInProgress) {
		// Double submit: show whatever the in-flight request produces.
		if werr := ctl.Settled(r.Context()); werr != nil {
			return
		}
	}
	c.record(r, id, ctl.Snapshot().Credentials.Username, res)

	c.render(w, statusFor(res.Outcome), id, ctl.Snapshot())
}

// handleFieldPOST applies one edit and reports the resulting error state.
func (c *Component) handleFieldPOST(w http.ResponseWriter, r *http.Request) {
	vals, err := form.ParseSubmission(r)
	if err != nil {
		c.badSubmission(w, r, err)
		return
	}

	ctl, ok := c.pages.Get(vals.Get(pageIDName))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "page expired"})
		return
	}

	ctl.UpdateField(login.Field(vals.Get("name")), vals.Get("value"))
	writeJSON(w, http.StatusOK, replyFor(ctl.Snapshot()))
}

func (c *Component) badSubmission(w http.ResponseWriter, r *http.Request, err error) {
	if form.IsTokenError(err) {
		c.log.Warnw("csrf token rejected", "path", r.URL.Path, "req_id", chimw.GetReqID(r.Context()))
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
}

/*──────────────────────────── Outcome bookkeeping ─────────────────────────*/

// record updates metrics and writes one log line per submit.  The password
// and tokens are never logged.
func (c *Component) record(r *http.Request, pageID, username string, res login.Result) {
	outcome := res.Outcome.String()
	metrics.LoginSubmissionsTotal.WithLabelValues(outcome).Inc()
	if res.Elapsed > 0 {
		metrics.UpstreamDuration.Observe(res.Elapsed.Seconds())
	}

	fields := []any{
		"outcome", outcome,
		"page_id", pageID,
		"username", username,
		"req_id", chimw.GetReqID(r.Context()),
	}
	if res.Elapsed > 0 {
		fields = append(fields, "upstream_ms", res.Elapsed.Milliseconds())
	}

	switch res.Outcome {
	case login.OutcomeSuccess:
		fields = append(fields, "user_id", res.Profile.ID)
		if exp, ok := res.Profile.AccessTokenExpiry(); ok {
			fields = append(fields, "token_expires", exp)
		}
		c.log.Infow("login succeeded", fields...)
	case login.OutcomeRejected:
		var apiErr *authapi.APIError
		if errors.As(res.Err, &apiErr) {
			fields = append(fields, "status", apiErr.StatusCode, "reason", apiErr.Message)
		}
		c.log.Infow("login rejected", fields...)
	case login.OutcomeFailed:
		c.log.Warnw("login request failed", append(fields, "err", res.Err)...)
	case login.OutcomeInvalid:
		c.log.Infow("login input invalid", fields...)
	default:
		c.log.Debugw("login submit ignored", fields...)
	}
}

func statusFor(o login.Outcome) int {
	switch o {
	case login.OutcomeInvalid:
		return http.StatusUnprocessableEntity
	case login.OutcomeRejected:
		return http.StatusUnauthorized
	case login.OutcomeFailed:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

/*──────────────────────────── JSON ─────────────────────────────────────────*/

// fieldReply mirrors the controller state the script reconciles against.
type fieldReply struct {
	FieldErrors map[string]string `json:"fieldErrors"`
	SubmitError string            `json:"submitError"`
	State       string            `json:"state"`
}

func replyFor(s login.Snapshot) fieldReply {
	errs := make(map[string]string, len(s.FieldErrors))
	for f, msg := range s.FieldErrors {
		errs[string(f)] = msg
	}
	return fieldReply{FieldErrors: errs, SubmitError: s.SubmitError, State: s.State.String()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fieldValue(c login.Credentials, f login.Field) string {
	if f == login.FieldUsername {
		return c.Username
	}
	return c.Password
}
