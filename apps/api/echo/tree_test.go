package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeAPI(t *testing.T) {
	a := setup(t)

	t.Run("empty before the first save", func(t *testing.T) {
		rec := a.do(newAuthRequest(http.MethodGet, "/v1/tree-structure", a.studentToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var doc struct {
			Name string      `json:"name"`
			Data interface{} `json:"data"`
		}
		decode(t, rec, &doc)
		assert.Equal(t, "default", doc.Name)
		assert.Equal(t, []interface{}{}, doc.Data)
	})

	a.run(t, []httpTest{
		{
			name:     "teacher cannot save",
			method:   http.MethodPost,
			path:     "/v1/tree-structure",
			body:     []byte(`{"data": []}`),
			token:    a.teacherToken,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "scalar data",
			method:   http.MethodPost,
			path:     "/v1/tree-structure",
			body:     []byte(`{"data": 42}`),
			token:    a.adminToken,
			wantCode: http.StatusUnprocessableEntity,
			wantData: marshallObj(t, map[string]string{"data": "data must be a JSON array or object"}),
		},
		{
			name:     "missing data",
			method:   http.MethodPost,
			path:     "/v1/tree-structure",
			body:     []byte(`{}`),
			token:    a.adminToken,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "malformed body",
			method:   http.MethodPost,
			path:     "/v1/tree-structure",
			body:     []byte(`{"data": [`),
			token:    a.adminToken,
			wantCode: http.StatusUnprocessableEntity,
		},
	})

	t.Run("save replaces the document", func(t *testing.T) {
		for _, body := range []string{
			`{"data": [{"id": 1, "label": "Direction"}]}`,
			`{"data": {"id": 1, "label": "Direction", "children": [{"id": 2, "label": "Secondary"}]}}`,
		} {
			rec := a.do(newAuthRequest(http.MethodPost, "/v1/tree-structure", a.adminToken, []byte(body)))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		}

		rec := a.do(newAuthRequest(http.MethodGet, "/v1/tree-structure", a.teacherToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var doc struct {
			Data map[string]interface{} `json:"data"`
		}
		decode(t, rec, &doc)
		assert.Equal(t, "Direction", doc.Data["label"])
		assert.Len(t, doc.Data["children"], 1)

		var count int64
		require.NoError(t, a.DB.Table("tree_structures").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}
