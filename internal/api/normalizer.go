package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/api/metrics"
	"github.com/esteveslima/media-collection/internal/api/reqctx"
	"github.com/esteveslima/media-collection/internal/core/domain"
)

const msgInternal = "Internal server error"

const redacted = "[REDACTED]"

// sensitiveHeaders and sensitiveFields are masked in request log lines.
var (
	sensitiveHeaders = map[string]struct{}{
		echo.HeaderAuthorization: {},
		"Cookie":                 {},
		echo.HeaderSetCookie:     {},
	}
	sensitiveFields = map[string]struct{}{
		"password": {},
	}
)

// ErrorBody is the JSON body written for errors carrying a plain message.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Normalizer logs every request exactly once and turns failures into
// consistent responses on channels that allow it.
type Normalizer struct {
	log      zerolog.Logger
	channels map[string]reqctx.Channel
}

func NewNormalizer(log zerolog.Logger) *Normalizer {
	return &Normalizer{log: log, channels: make(map[string]reqctx.Channel)}
}

// SetChannel declares the channel of a registered route path. Undeclared
// routes are REST.
func (n *Normalizer) SetChannel(path string, ch reqctx.Channel) {
	n.channels[path] = ch
}

func (n *Normalizer) channelFor(path string) reqctx.Channel {
	if ch, ok := n.channels[path]; ok {
		return ch
	}
	return reqctx.ChannelREST
}

// Track creates the request state, recovers handler panics into errors and
// logs successful requests. Failures are returned to Echo, which hands them
// to HandleError.
func (n *Normalizer) Track() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := reqctx.New(n.channelFor(c.Path()))
			reqctx.Attach(c, state)
			state.Body = captureBody(c.Request())

			if err := n.invoke(next, c, state); err != nil {
				return err
			}

			if state.MarkLogged() {
				rec := n.record(c, state, c.Response().Status, nil, "")
				n.log.Info().EmbedObject(rec).Msg("request completed")
			}
			return nil
		}
	}
}

func (n *Normalizer) invoke(next echo.HandlerFunc, c echo.Context, state *reqctx.State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == http.ErrAbortHandler {
				panic(r)
			}
			metrics.PanicsTotal.Inc()
			state.Stack = debug.Stack()
			if e, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", e)
			} else {
				err = fmt.Errorf("panic: %v", r)
			}
		}
	}()
	return next(c)
}

// HandleError is installed as the echo.HTTPErrorHandler. It resolves err to
// a status and body, logs once per request and shapes the response only
// when the channel declares CapShapeJSON and nothing was written yet.
func (n *Normalizer) HandleError(err error, c echo.Context) {
	state := reqctx.From(c)
	status, body := resolve(err)

	if state.MarkLogged() {
		metrics.ErrorsTotal.WithLabelValues(state.Channel.Name, strconv.Itoa(status)).Inc()
		rec := n.record(c, state, status, body, errorStack(err, state))
		n.log.Error().EmbedObject(rec).Msg("request failed")
	}

	if !state.Channel.Has(reqctx.CapShapeJSON) || c.Response().Committed {
		return
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		n.log.Warn().Err(writeErr).Msg("failed to write error response")
	}
}

// resolve classifies err. Transport errors keep their status; a non-string
// message is forwarded verbatim. Anything else is an unexpected failure.
func resolve(err error) (int, any) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, ErrorBody{StatusCode: he.Code, Message: msg}
		}
		if he.Message == nil {
			return he.Code, ErrorBody{StatusCode: he.Code, Message: http.StatusText(he.Code)}
		}
		return he.Code, he.Message
	}
	return http.StatusInternalServerError, ErrorBody{StatusCode: http.StatusInternalServerError, Message: msgInternal}
}

func errorStack(err error, state *reqctx.State) string {
	if len(state.Stack) > 0 {
		return fmt.Sprintf("%v\n%s", err, state.Stack)
	}
	var sig domain.Signal
	if errors.As(err, &sig) {
		return fmt.Sprintf("unmapped signal %s: %v", sig, err)
	}
	return err.Error()
}

// captureBody reads the request body and restores it for the handler.
func captureBody(req *http.Request) []byte {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	return raw
}

func (n *Normalizer) record(c echo.Context, state *reqctx.State, status int, result any, stack string) *LogRecord {
	rec := &LogRecord{
		Method:         c.Request().Method,
		Path:           c.Path(),
		Channel:        state.Channel.Name,
		Headers:        c.Request().Header,
		Params:         make(map[string]string, len(c.ParamNames())),
		Query:          c.QueryParams(),
		Body:           state.Body,
		StatusCode:     status,
		Result:         result,
		StartTimestamp: state.StartedAt,
		ExecutionTime:  state.Elapsed(),
		ErrorStack:     stack,
	}
	if rec.Path == "" {
		rec.Path = c.Request().URL.Path
	}
	for i, name := range c.ParamNames() {
		if i < len(c.ParamValues()) {
			rec.Params[name] = c.ParamValues()[i]
		}
	}
	if id, ok := state.Identity(); ok {
		rec.Auth = &id
	}
	return rec
}

// LogRecord is the structured line emitted once per request.
type LogRecord struct {
	Method         string
	Path           string
	Channel        string
	Headers        http.Header
	Params         map[string]string
	Query          map[string][]string
	Body           []byte
	Auth           *domain.Identity
	StatusCode     int
	Result         any
	StartTimestamp time.Time
	ExecutionTime  time.Duration
	ErrorStack     string
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler. Credentials
// in headers and body are masked.
func (r *LogRecord) MarshalZerologObject(e *zerolog.Event) {
	headers := zerolog.Dict()
	for name, values := range r.Headers {
		if _, ok := sensitiveHeaders[http.CanonicalHeaderKey(name)]; ok {
			headers.Str(name, redacted)
			continue
		}
		headers.Strs(name, values)
	}

	params := zerolog.Dict()
	for k, v := range r.Params {
		params.Str(k, v)
	}

	query := zerolog.Dict()
	for k, v := range r.Query {
		query.Strs(k, v)
	}

	payload := zerolog.Dict().
		Dict("headers", headers).
		Dict("params", params).
		Dict("query", query)
	if body := redactBody(r.Body); body != nil {
		payload.RawJSON("body", body)
	}

	request := zerolog.Dict().
		Dict("http", zerolog.Dict().
			Str("method", r.Method).
			Str("path", r.Path).
			Str("channel", r.Channel).
			Dict("payload", payload))
	request.Interface("auth", r.Auth)

	response := zerolog.Dict().Int("statusCode", r.StatusCode)
	if r.Result != nil {
		response.Interface("result", r.Result)
	}

	e.Dict("request", request).
		Dict("response", response).
		Time("startTimestamp", r.StartTimestamp).
		Dur("executionTime", r.ExecutionTime)
	if r.ErrorStack != "" {
		e.Str("errorStack", r.ErrorStack)
	}
}

// redactBody returns the body as JSON with sensitive fields masked. Bodies
// that are not JSON are logged as a JSON string.
func redactBody(raw []byte) []byte {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		quoted, _ := json.Marshal(string(raw))
		return quoted
	}
	out, err := json.Marshal(redactValue(v))
	if err != nil {
		return nil
	}
	return out
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if _, ok := sensitiveFields[k]; ok {
				t[k] = redacted
				continue
			}
			t[k] = redactValue(val)
		}
		return t
	case []any:
		for i := range t {
			t[i] = redactValue(t[i])
		}
		return t
	}
	return v
}
