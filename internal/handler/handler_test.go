package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmanzi/partsdb/internal/config"
	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/handler"
	"github.com/nmanzi/partsdb/internal/repository"
	"github.com/nmanzi/partsdb/internal/service"
	"github.com/nmanzi/partsdb/internal/testutil"
)

// setupAPI wires the full stack against an in-memory database, mirroring the
// server's route table.
func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	cfg := &config.Config{
		Import: config.ImportConfig{MaxFileSize: 1 << 20},
	}
	svc := service.NewServices(repos, nil, cfg, testutil.Logger())
	h := handler.NewHandlers(svc, cfg)

	router := testutil.SetupRouter()
	api := router.Group("/api")
	{
		api.GET("/bins", h.Bin.List)
		api.POST("/bins", h.Bin.Create)
		api.GET("/bins/:id", h.Bin.Get)
		api.PUT("/bins/:id", h.Bin.Update)
		api.DELETE("/bins/:id", h.Bin.Delete)

		api.GET("/categories", h.Category.List)
		api.POST("/categories", h.Category.Create)
		api.GET("/categories/:id", h.Category.Get)
		api.PUT("/categories/:id", h.Category.Update)
		api.DELETE("/categories/:id", h.Category.Delete)

		api.GET("/parts", h.Part.List)
		api.POST("/parts", h.Part.Create)
		api.POST("/parts/import", h.Exchange.Import)
		api.GET("/parts/export", h.Exchange.Export)
		api.GET("/parts/:id", h.Part.Get)
		api.PUT("/parts/:id", h.Part.Update)
		api.DELETE("/parts/:id", h.Part.Delete)
	}
	return router
}

func createBin(t *testing.T, router *gin.Engine, number int) entity.Bin {
	t.Helper()
	w := testutil.DoJSON(t, router, http.MethodPost, "/api/bins", gin.H{"number": number})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bin entity.Bin
	testutil.DecodeData(t, w, &bin)
	return bin
}

func createCategory(t *testing.T, router *gin.Engine, name string) entity.Category {
	t.Helper()
	w := testutil.DoJSON(t, router, http.MethodPost, "/api/categories", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cat entity.Category
	testutil.DecodeData(t, w, &cat)
	return cat
}

func TestBinLifecycle(t *testing.T) {
	router := setupAPI(t)

	bin := createBin(t, router, 7)
	assert.Equal(t, 7, bin.Number)
	assert.NotZero(t, bin.ID)

	// Duplicate number maps to 409.
	w := testutil.DoJSON(t, router, http.MethodPost, "/api/bins", gin.H{"number": 7})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = testutil.DoJSON(t, router, http.MethodPut, "/api/bins/1", gin.H{"location": "shelf A"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated entity.Bin
	testutil.DecodeData(t, w, &updated)
	assert.Equal(t, "shelf A", updated.Location)
	assert.Equal(t, 7, updated.Number, "untouched fields survive a partial update")

	w = testutil.DoJSON(t, router, http.MethodDelete, "/api/bins/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoJSON(t, router, http.MethodGet, "/api/bins/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBinListWithCounts(t *testing.T) {
	router := setupAPI(t)
	bin := createBin(t, router, 2)
	createBin(t, router, 1)

	w := testutil.DoJSON(t, router, http.MethodPost, "/api/parts",
		gin.H{"name": "resistor pack", "bin_id": bin.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = testutil.DoJSON(t, router, http.MethodGet, "/api/bins?with_counts=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bins []entity.BinWithCount
	testutil.DecodeData(t, w, &bins)
	require.Len(t, bins, 2)
	assert.Equal(t, 1, bins[0].Number, "ordered by bin number")
	assert.Equal(t, int64(0), bins[0].PartCount)
	assert.Equal(t, int64(1), bins[1].PartCount)
}

func TestPartCreateValidation(t *testing.T) {
	router := setupAPI(t)

	// Missing required fields is a binding failure.
	w := testutil.DoJSON(t, router, http.MethodPost, "/api/parts", gin.H{"name": "loose screw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown bin is a referential failure, also 400.
	w = testutil.DoJSON(t, router, http.MethodPost, "/api/parts",
		gin.H{"name": "loose screw", "bin_id": 42})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bin := createBin(t, router, 1)
	w = testutil.DoJSON(t, router, http.MethodPost, "/api/parts",
		gin.H{"name": "loose screw", "bin_id": bin.ID, "category_ids": []uint{99}})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown category rejects the create")
}

func TestPartNotFoundAndBadID(t *testing.T) {
	router := setupAPI(t)

	w := testutil.DoJSON(t, router, http.MethodGet, "/api/parts/12345", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.DoJSON(t, router, http.MethodGet, "/api/parts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPartUpdateReplacesCategories(t *testing.T) {
	router := setupAPI(t)
	bin := createBin(t, router, 1)
	cables := createCategory(t, router, "Cables")
	power := createCategory(t, router, "Power")

	w := testutil.DoJSON(t, router, http.MethodPost, "/api/parts",
		gin.H{"name": "usb-c cable", "bin_id": bin.ID, "category_ids": []uint{cables.ID}})
	require.Equal(t, http.StatusCreated, w.Code)
	var part entity.Part
	testutil.DecodeData(t, w, &part)
	require.Len(t, part.Categories, 1)

	w = testutil.DoJSON(t, router, http.MethodPut, "/api/parts/1",
		gin.H{"category_ids": []uint{cables.ID, power.ID}})
	require.Equal(t, http.StatusOK, w.Code)
	testutil.DecodeData(t, w, &part)
	require.Len(t, part.Categories, 2)
	assert.Equal(t, "usb-c cable", part.Name, "patch without name leaves it alone")
}

func TestPartListSearchParam(t *testing.T) {
	router := setupAPI(t)
	bin := createBin(t, router, 1)

	for _, name := range []string{"usb-c power cable", "ethernet cable", "power brick"} {
		w := testutil.DoJSON(t, router, http.MethodPost, "/api/parts",
			gin.H{"name": name, "bin_id": bin.ID})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := testutil.DoJSON(t, router, http.MethodGet, "/api/parts?search=power+cable", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var parts []entity.Part
	testutil.DecodeData(t, w, &parts)
	require.Len(t, parts, 1)
	assert.Equal(t, "usb-c power cable", parts[0].Name)
}

func TestDeleteReferencedBinRejected(t *testing.T) {
	router := setupAPI(t)
	bin := createBin(t, router, 1)

	w := testutil.DoJSON(t, router, http.MethodPost, "/api/parts",
		gin.H{"name": "spacer", "bin_id": bin.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = testutil.DoJSON(t, router, http.MethodDelete, "/api/bins/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = testutil.DoJSON(t, router, http.MethodDelete, "/api/parts/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = testutil.DoJSON(t, router, http.MethodDelete, "/api/bins/1", nil)
	assert.Equal(t, http.StatusOK, w.Code, "deletable once empty")
}

func TestImportUpload(t *testing.T) {
	router := setupAPI(t)

	csv := "name,description,quantity,part_type,specifications,manufacturer,model,bin_number,category_name\n" +
		"hdmi cable,,2,Cable,,,,5,Cables\n" +
		"power brick,,1,,,,,5,Power;Cables\n"
	w := testutil.DoUpload(t, router, "/api/parts/import", "file", "parts.csv", []byte(csv))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result service.ImportResult
	testutil.DecodeData(t, w, &result)
	assert.Len(t, result.Created, 2)
	assert.Empty(t, result.Errors)

	// The import provisioned bin 5 on the fly.
	w = testutil.DoJSON(t, router, http.MethodGet, "/api/bins", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bins []entity.Bin
	testutil.DecodeData(t, w, &bins)
	require.Len(t, bins, 1)
	assert.Equal(t, 5, bins[0].Number)
}

func TestImportRejectsWrongExtension(t *testing.T) {
	router := setupAPI(t)
	w := testutil.DoUpload(t, router, "/api/parts/import", "file", "parts.xlsx", []byte("name,bin_number\n"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHeaders(t *testing.T) {
	router := setupAPI(t)

	w := testutil.DoJSON(t, router, http.MethodGet, "/api/parts/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "name,description,quantity")

	w = testutil.DoJSON(t, router, http.MethodGet, "/api/parts/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
}
