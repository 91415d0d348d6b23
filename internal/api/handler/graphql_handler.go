package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"

	"github.com/esteveslima/media-collection/internal/api/errmap"
	"github.com/esteveslima/media-collection/internal/api/reqctx"
	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

// graphqlError is what resolvers hand back to graphql-go. Only the mapped
// message reaches the client; the status travels in the extensions.
type graphqlError struct {
	status  int
	message string
}

func (e *graphqlError) Error() string { return e.message }

// Extensions implements gqlerrors.ExtendedError.
func (e *graphqlError) Extensions() map[string]interface{} {
	return map[string]interface{}{"statusCode": e.status}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler serves the query-language channel. Resolver failures are
// reported in the response's errors array with status 200 and recorded on
// the request state so the normalizer can log them.
type GraphQLHandler struct {
	schema graphql.Schema
	auth   ports.AuthService
	media  ports.MediaService
}

func NewGraphQLHandler(auth ports.AuthService, media ports.MediaService) (*GraphQLHandler, error) {
	h := &GraphQLHandler{auth: auth, media: media}
	schema, err := h.buildSchema()
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}
	h.schema = schema
	return h, nil
}

// Serve executes a single GraphQL operation.
//
// @Summary      GraphQL endpoint
// @Tags         graphql
// @Accept       json
// @Produce      json
// @Param        body  body      graphqlRequest  true  "GraphQL request"
// @Success      200   {object}  map[string]interface{}
// @Router       /api/graphql [post]
func (h *GraphQLHandler) Serve(c echo.Context) error {
	var req graphqlRequest
	if err := c.Bind(&req); err != nil || req.Query == "" {
		failure := echo.NewHTTPError(http.StatusBadRequest, "GraphQL request must include a query")
		if writeErr := c.JSON(http.StatusBadRequest, map[string]any{
			"errors": []map[string]any{{"message": failure.Message}},
		}); writeErr != nil {
			return writeErr
		}
		return failure
	}

	state := reqctx.From(c)
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        reqctx.NewContext(c.Request().Context(), state),
	})

	if err := c.JSON(http.StatusOK, result); err != nil {
		return err
	}

	if len(state.Errors) > 0 {
		return errors.Join(state.Errors...)
	}
	if result.HasErrors() {
		// parse or validation failure; no resolver ran
		return echo.NewHTTPError(http.StatusBadRequest, result.Errors[0].Message)
	}
	return nil
}

// resolver adapts fn to graphql-go, translating failures through table.
func resolver(table errmap.Table, fn func(ctx context.Context, args map[string]interface{}) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		out, err := fn(p.Context, p.Args)
		if err == nil {
			return out, nil
		}

		mapped := errmap.Map(err, table)
		if state, ok := reqctx.FromContext(p.Context); ok {
			state.RecordError(mapped)
		}

		var he *echo.HTTPError
		if errors.As(mapped, &he) {
			if msg, ok := he.Message.(string); ok {
				return nil, &graphqlError{status: he.Code, message: msg}
			}
			return nil, &graphqlError{status: he.Code, message: http.StatusText(he.Code)}
		}
		return nil, &graphqlError{status: http.StatusInternalServerError, message: "Internal server error"}
	}
}

func (h *GraphQLHandler) buildSchema() (graphql.Schema, error) {
	mediaType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Media",
		Fields: graphql.Fields{
			"title":           &graphql.Field{Type: graphql.String},
			"type":            &graphql.Field{Type: graphql.String},
			"description":     &graphql.Field{Type: graphql.String},
			"contentBase64":   &graphql.Field{Type: graphql.String},
			"durationSeconds": &graphql.Field{Type: graphql.Int},
			"views":           &graphql.Field{Type: graphql.Int},
			"available":       &graphql.Field{Type: graphql.Boolean},
			"createdAt":       &graphql.Field{Type: graphql.DateTime},
			"owner":           &graphql.Field{Type: graphql.String},
		},
	})

	mediaSummaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MediaSummary",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"title":           &graphql.Field{Type: graphql.String},
			"type":            &graphql.Field{Type: graphql.String},
			"description":     &graphql.Field{Type: graphql.String},
			"durationSeconds": &graphql.Field{Type: graphql.Int},
			"views":           &graphql.Field{Type: graphql.Int},
			"available":       &graphql.Field{Type: graphql.Boolean},
			"createdAt":       &graphql.Field{Type: graphql.DateTime},
			"username":        &graphql.Field{Type: graphql.String},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"media": &graphql.Field{
				Type: mediaType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolver(mediaByIDErrors, h.resolveMedia),
			},
			"searchMedia": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(mediaSummaryType))),
				Args: graphql.FieldConfigArgument{
					"title":           &graphql.ArgumentConfig{Type: graphql.String},
					"type":            &graphql.ArgumentConfig{Type: graphql.String},
					"description":     &graphql.ArgumentConfig{Type: graphql.String},
					"durationSeconds": &graphql.ArgumentConfig{Type: graphql.Int},
					"views":           &graphql.ArgumentConfig{Type: graphql.Int},
					"available":       &graphql.ArgumentConfig{Type: graphql.Boolean},
					"createdAt":       &graphql.ArgumentConfig{Type: graphql.String},
					"username":        &graphql.ArgumentConfig{Type: graphql.String},
					"take":            &graphql.ArgumentConfig{Type: graphql.Int},
					"skip":            &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: resolver(searchMediaErrors, h.resolveSearchMedia),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolver(loginErrors, h.resolveLogin),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func (h *GraphQLHandler) resolveMedia(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	raw, _ := args["id"].(string)
	id, err := parseUUID(raw)
	if err != nil {
		return nil, err
	}

	m, err := h.media.GetMediaByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"title":           m.Title,
		"type":            string(m.Type),
		"description":     m.Description,
		"contentBase64":   m.ContentBase64,
		"durationSeconds": m.DurationSeconds,
		"views":           int(m.Views),
		"available":       m.Available,
		"createdAt":       m.CreatedAt.UTC(),
		"owner":           m.Owner,
	}, nil
}

func (h *GraphQLHandler) resolveSearchMedia(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var f domain.MediaFilter
	f.Title, _ = args["title"].(string)
	if t, ok := args["type"].(string); ok {
		f.Type = searchType(t)
	}
	f.Description, _ = args["description"].(string)
	f.Username, _ = args["username"].(string)
	if v, ok := args["durationSeconds"].(int); ok {
		f.DurationSeconds = &v
	}
	if v, ok := args["views"].(int); ok {
		n := int64(v)
		f.Views = &n
	}
	if v, ok := args["available"].(bool); ok {
		f.Available = &v
	}
	if v, ok := args["createdAt"].(string); ok {
		t, ok := parseDay(v)
		if !ok {
			return nil, domain.SignalMediaSearchInvalidFilters
		}
		f.CreatedAt = &t
	}
	f.Take, _ = args["take"].(int)
	f.Skip, _ = args["skip"].(int)

	found, err := h.media.SearchMedia(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, len(found))
	for i, m := range found {
		out[i] = map[string]interface{}{
			"id":              m.ID,
			"title":           m.Title,
			"type":            string(m.Type),
			"description":     m.Description,
			"durationSeconds": m.DurationSeconds,
			"views":           int(m.Views),
			"available":       m.Available,
			"createdAt":       m.CreatedAt.UTC(),
			"username":        m.Username,
		}
	}
	return out, nil
}

func (h *GraphQLHandler) resolveLogin(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	username, _ := args["username"].(string)
	password, _ := args["password"].(string)
	return h.auth.Login(ctx, username, password)
}
