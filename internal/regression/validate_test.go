package regression

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kdduha/regression-plot/internal/errors"
	"github.com/kdduha/regression-plot/internal/models"
)

func decodeRequest(t *testing.T, body string) *models.RegressionRequest {
	t.Helper()
	var raw models.RegressionRequest
	require.NoError(t, sonic.UnmarshalString(body, &raw))
	return &raw
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		kind        apperrors.Kind
		errContains string
	}{
		{
			name:        "missing X",
			body:        `{"y":[1,2]}`,
			kind:        apperrors.KindShape,
			errContains: "X and y are required",
		},
		{
			name:        "empty y",
			body:        `{"X":[[1]],"y":[]}`,
			kind:        apperrors.KindShape,
			errContains: "X and y are required",
		},
		{
			name:        "X is not an array",
			body:        `{"X":"abc","y":[1]}`,
			kind:        apperrors.KindShape,
			errContains: "X and y are required",
		},
		{
			name:        "ragged X",
			body:        `{"X":[[1,2],[3]],"y":[1,2]}`,
			kind:        apperrors.KindShape,
			errContains: "shape mismatch: row 1 of X has 1 columns, expected 2",
		},
		{
			name:        "ragged X with 3d plot",
			body:        `{"X":[[1,2],[3]],"y":[1,2],"plot":"3d"}`,
			kind:        apperrors.KindShape,
			errContains: "shape mismatch",
		},
		{
			name:        "flat X",
			body:        `{"X":[1,2,3],"y":[1,2,3]}`,
			kind:        apperrors.KindShape,
			errContains: "row 0 of X is not an array",
		},
		{
			name:        "empty rows",
			body:        `{"X":[[],[]],"y":[1,2]}`,
			kind:        apperrors.KindShape,
			errContains: "at least one column",
		},
		{
			name:        "y length mismatch",
			body:        `{"X":[[1],[2],[3]],"y":[1,2]}`,
			kind:        apperrors.KindShape,
			errContains: "y has 2 values but X has 3 rows",
		},
		{
			name:        "unknown plot kind",
			body:        `{"X":[[1],[2]],"y":[1,2],"plot":"4d"}`,
			kind:        apperrors.KindPlotConstraint,
			errContains: `unsupported plot kind "4d"`,
		},
		{
			name:        "plot not a string",
			body:        `{"X":[[1],[2]],"y":[1,2],"plot":3}`,
			kind:        apperrors.KindPlotConstraint,
			errContains: "unsupported plot kind",
		},
		{
			name:        "3d with one feature",
			body:        `{"X":[[1],[2]],"y":[1,2],"plot":"3d"}`,
			kind:        apperrors.KindPlotConstraint,
			errContains: "3D plot requires exactly 2 features (columns) in X",
		},
		{
			name:        "3d with three features",
			body:        `{"X":[[1,2,3],[4,5,6]],"y":[1,2],"plot":"3d"}`,
			kind:        apperrors.KindPlotConstraint,
			errContains: "3D plot requires exactly 2 features (columns) in X",
		},
		{
			name:        "non numeric X",
			body:        `{"X":[[1],["a"]],"y":[1,2]}`,
			kind:        apperrors.KindType,
			errContains: "X[1][0] must be a finite number",
		},
		{
			name:        "NaN string in y",
			body:        `{"X":[[1],[2]],"y":[1,"NaN"]}`,
			kind:        apperrors.KindType,
			errContains: "y[1] must be a finite number",
		},
		{
			name:        "null in y",
			body:        `{"X":[[1],[2]],"y":[1,null]}`,
			kind:        apperrors.KindType,
			errContains: "y[1] must be a finite number",
		},
		{
			name:        "labels not an object",
			body:        `{"X":[[1],[2]],"y":[1,2],"labels":"title"}`,
			kind:        apperrors.KindType,
			errContains: "labels must be an object",
		},
		{
			name:        "label not a string",
			body:        `{"X":[[1],[2]],"y":[1,2],"labels":{"title":5}}`,
			kind:        apperrors.KindType,
			errContains: "labels.title must be a string",
		},
		{
			name:        "negative height",
			body:        `{"X":[[1],[2]],"y":[1,2],"layout":{"height":-1}}`,
			kind:        apperrors.KindType,
			errContains: "layout.height must be a positive number",
		},
		{
			name:        "autosize not bool",
			body:        `{"X":[[1],[2]],"y":[1,2],"layout":{"autosize":"yes"}}`,
			kind:        apperrors.KindType,
			errContains: "layout.autosize must be a boolean",
		},
		{
			name:        "margin value not a number",
			body:        `{"X":[[1],[2]],"y":[1,2],"layout":{"margin":{"l":"wide"}}}`,
			kind:        apperrors.KindType,
			errContains: "layout.margin.l must be a non-negative number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Validate(decodeRequest(t, tt.body))
			require.Error(t, err)
			assert.Nil(t, req)
			assert.True(t, apperrors.IsKind(err, tt.kind), "unexpected error kind: %v", err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValidate_CheckOrder(t *testing.T) {
	// ragged rows are reported before the y length and the plot kind
	_, err := Validate(decodeRequest(t, `{"X":[[1,2],[3]],"y":[1],"plot":"bogus"}`))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindShape))

	// plot constraints are reported before non-numeric cells
	_, err = Validate(decodeRequest(t, `{"X":[["a"],[2]],"y":[1,2],"plot":"3d"}`))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPlotConstraint))
}

func TestValidate_Success(t *testing.T) {
	req, err := Validate(decodeRequest(t, `{
		"X": [[1, 2], [3, 4], [5, 7]],
		"y": [1.5, 2.5, 4],
		"plot": "3d",
		"labels": {"title": "Price model", "z_label": "Price", "extra": 1},
		"layout": {"height": 600, "margin": {"l": 10}, "paper_bgcolor": "#eee"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 7}}, req.X)
	assert.Equal(t, []float64{1.5, 2.5, 4}, req.Y)
	assert.Equal(t, Plot3D, req.Plot)
	assert.Equal(t, Labels{Title: "Price model", ZLabel: "Price"}, req.Labels)
	assert.Equal(t, 3, req.Samples())
	assert.Equal(t, 2, req.Features())
	assert.Equal(t, []float64{2, 4, 7}, req.Column(1))
	assert.Equal(t, "#eee", req.Layout["paper_bgcolor"])
}

func TestValidate_DefaultPlot(t *testing.T) {
	omitted, err := Validate(decodeRequest(t, `{"X":[[1],[2]],"y":[3,4]}`))
	require.NoError(t, err)
	explicit, err := Validate(decodeRequest(t, `{"X":[[1],[2]],"y":[3,4],"plot":"2d"}`))
	require.NoError(t, err)

	assert.Equal(t, Plot2D, omitted.Plot)
	assert.Equal(t, explicit, omitted)
}

func TestValidate_LayoutIsCopied(t *testing.T) {
	raw := decodeRequest(t, `{"X":[[1],[2]],"y":[3,4],"layout":{"margin":{"l":5}}}`)
	req, err := Validate(raw)
	require.NoError(t, err)

	req.Layout["margin"].(map[string]any)["l"] = 200.0
	original := raw.Layout.(map[string]any)["margin"].(map[string]any)
	assert.Equal(t, 5.0, original["l"])
}
