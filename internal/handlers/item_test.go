// internal/handlers/item_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
	"github.com/greenbourne277/zbwcloud/internal/services"
	"github.com/greenbourne277/zbwcloud/internal/utils"
)

type ItemHandlerSuite struct {
	suite.Suite
	router *gin.Engine
	stores *repository.Stores
}

func (s *ItemHandlerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *ItemHandlerSuite) SetupTest() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.stores = repository.NewMemoryStores()
	searchService := services.NewSearchService(s.stores, logger)
	itemService := services.NewItemService(s.stores, logger)

	searchHandler := NewSearchHandler(searchService)
	itemHandler := NewItemHandler(itemService)

	s.router = gin.New()
	s.router.GET("/items/search", searchHandler.Search)
	s.router.GET("/items/:metadataId", itemHandler.GetItem)
	s.router.POST("/items", itemHandler.LinkItem)
	s.router.DELETE("/items/:metadataId/:rightId", itemHandler.UnlinkItem)
}

func (s *ItemHandlerSuite) seed() {
	zdb := "ZDB-1-EWE"
	s.Require().NoError(s.stores.Metadata.Insert(&models.ItemMetadata{
		MetadataID:      "md-1",
		Title:           "International Trade Report",
		PublicationDate: time.Date(2018, time.July, 1, 0, 0, 0, 0, time.UTC),
		PublicationType: models.PublicationTypeArticle,
		ZDBID:           &zdb,
	}))
	s.Require().NoError(s.stores.Rights.Insert(&models.ItemRight{
		RightID:   "r-1",
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func (s *ItemHandlerSuite) doJSON(method, path string, body interface{}) (*httptest.ResponseRecorder, utils.APIResponse) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp utils.APIResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func (s *ItemHandlerSuite) TestLinkItem() {
	s.seed()

	w, resp := s.doJSON(http.MethodPost, "/items", gin.H{
		"metadata_id": "md-1",
		"right_id":    "r-1",
	})
	s.Equal(http.StatusCreated, w.Code)
	s.True(resp.Success)

	// The same pair again is refused.
	w, resp = s.doJSON(http.MethodPost, "/items", gin.H{
		"metadata_id": "md-1",
		"right_id":    "r-1",
	})
	s.Equal(http.StatusConflict, w.Code)
	s.False(resp.Success)
	s.Equal("CONFLICT", resp.Error.Code)
}

func (s *ItemHandlerSuite) TestLinkItemValidatesPayload() {
	w, resp := s.doJSON(http.MethodPost, "/items", gin.H{"metadata_id": "md-1"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("VALIDATION_ERROR", resp.Error.Code)
}

func (s *ItemHandlerSuite) TestGetItem() {
	s.seed()
	s.Require().NoError(s.stores.Items.Insert("md-1", "r-1"))

	w, resp := s.doJSON(http.MethodGet, "/items/md-1", nil)
	s.Equal(http.StatusOK, w.Code)
	s.True(resp.Success)

	w, resp = s.doJSON(http.MethodGet, "/items/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("NOT_FOUND", resp.Error.Code)
}

func (s *ItemHandlerSuite) TestUnlinkItem() {
	s.seed()
	s.Require().NoError(s.stores.Items.Insert("md-1", "r-1"))

	w, resp := s.doJSON(http.MethodDelete, "/items/md-1/r-1", nil)
	s.Equal(http.StatusOK, w.Code)
	s.True(resp.Success)

	w, _ = s.doJSON(http.MethodDelete, "/items/md-1/r-1", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ItemHandlerSuite) TestSearch() {
	s.seed()

	w, resp := s.doJSON(http.MethodGet, "/items/search?searchTerm=tit:trade&zdbId=ZDB-1-EWE", nil)
	s.Equal(http.StatusOK, w.Code)
	s.True(resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	s.Require().True(ok)
	s.Equal(float64(1), data["number_of_results"])
}

func (s *ItemHandlerSuite) TestSearchRejectsBadYear() {
	w, resp := s.doJSON(http.MethodGet, "/items/search?publicationDateFrom=abc", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("VALIDATION_ERROR", resp.Error.Code)
}

func TestItemHandlerSuite(t *testing.T) {
	suite.Run(t, new(ItemHandlerSuite))
}
