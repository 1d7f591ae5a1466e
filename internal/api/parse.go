package api

import (
	"fmt"

	"github.com/tidwall/gjson"

	apierrors "github.com/samarth-qa/samarth/internal/errors"
	"github.com/samarth-qa/samarth/internal/models"
)

// ParseChatResponse decodes the body of a chat answer.
//
// The HTTP status is not consulted: the backend answers application failures
// with a JSON body and a 500, and those are regular soft failures. A body
// that is not JSON, or is JSON null, is an error. Other JSON values that are
// not objects decode as an unsuccessful response with no text.
func ParseChatResponse(body []byte) (*models.ChatResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", string(body))
	}

	root := gjson.ParseBytes(body)
	if root.Type == gjson.Null {
		return nil, apierrors.NewParseError("response is null", string(body))
	}
	// Any other non-object carries no success flag: an unexplained failure
	if !root.IsObject() {
		return &models.ChatResponse{}, nil
	}

	payload, err := parsePayload(root.Get(PathResponse))
	if err != nil {
		return nil, err
	}

	resp := &models.ChatResponse{
		Success:   root.Get(PathSuccess).Bool(),
		Type:      root.Get(PathType).String(),
		Response:  payload,
		QueryType: root.Get(PathQueryType).String(),
	}

	// Validation failures come back as {"error": "..."} without a response field
	if !resp.Success && !payload.Present {
		if e := root.Get(PathError); e.Exists() && e.String() != "" {
			resp.Response = models.Payload{Present: true, Text: e.String(), Raw: e.Raw}
		}
	}

	return resp, nil
}

// parsePayload decodes the "response" field, which is a string or an array of rows
func parsePayload(r gjson.Result) (models.Payload, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return models.Payload{}, nil
	}

	if r.IsArray() {
		rows := models.Table{}
		var rowErr error
		r.ForEach(func(idx, elem gjson.Result) bool {
			if !elem.IsObject() {
				rowErr = apierrors.NewParseError(
					fmt.Sprintf("row %d is not an object", len(rows)), r.Raw)
				return false
			}
			rows = append(rows, parseRow(elem))
			return true
		})
		if rowErr != nil {
			return models.Payload{}, rowErr
		}
		return models.Payload{Present: true, IsRows: true, Rows: rows, Raw: r.Raw}, nil
	}

	if r.Type == gjson.String {
		return models.Payload{Present: true, Text: r.String(), Raw: r.Raw}, nil
	}

	// Numbers, booleans and objects are shown as their JSON text
	return models.Payload{Present: true, Text: r.Raw, Raw: r.Raw}, nil
}

// parseRow keeps the keys in document order, which is the column order
func parseRow(obj gjson.Result) models.Row {
	row := models.NewRow()
	obj.ForEach(func(key, value gjson.Result) bool {
		row.Set(key.String(), parseValue(value))
		return true
	})
	return row
}

func parseValue(v gjson.Result) models.Value {
	switch v.Type {
	case gjson.String:
		return models.StringValue(v.Str)
	case gjson.Number:
		return models.NumberValue(v.Num)
	case gjson.True:
		return models.BoolValue(true)
	case gjson.False:
		return models.BoolValue(false)
	case gjson.JSON:
		return models.StringValue(v.Raw)
	default:
		return models.NullValue()
	}
}

// ParseExamples decodes the body of GET /api/examples
func ParseExamples(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("examples response is not valid JSON", string(body))
	}

	list := gjson.GetBytes(body, PathExampleList)
	if !list.IsArray() {
		return nil, apierrors.NewParseError("examples field is missing or not an array", string(body))
	}

	var examples []string
	for _, item := range list.Array() {
		if item.Type != gjson.String || item.Str == "" {
			continue
		}
		examples = append(examples, item.Str)
	}
	return examples, nil
}
