//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"ordersvc/internal/handler/api"
	resdto "ordersvc/internal/handler/dto/response"
	"ordersvc/internal/pkg/errs"
	"ordersvc/tests/common/builder"
	commonhttp "ordersvc/tests/common/httptest"
	commandsmock "ordersvc/tests/mock/commands"
	queriesmock "ordersvc/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ProductHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockCtrl      *gomock.Controller
	mockCommands  *commandsmock.MockProductCommands
	mockInventory *commandsmock.MockInventoryCommands
	mockQueries   *queriesmock.MockProductQueries
	handler       *api.ProductHandler
}

func (s *ProductHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockProductCommands(s.mockCtrl)
	s.mockInventory = commandsmock.NewMockInventoryCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockProductQueries(s.mockCtrl)
	s.handler = api.NewProductHandler(s.mockCommands, s.mockInventory, s.mockQueries)

	s.router.POST("/products", s.handler.CreateProduct)
	s.router.GET("/products", s.handler.ListProducts)
	s.router.GET("/products/:id", s.handler.GetProduct)
	s.router.PUT("/products/:id", s.handler.UpdateProduct)
	s.router.DELETE("/products/:id", s.handler.DeleteProduct)
	s.router.POST("/products/:id/reserve", s.handler.ReserveStock)
	s.router.POST("/products/:id/release", s.handler.ReleaseStock)
}

func (s *ProductHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestProductHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProductHandlerTestSuite))
}

func (s *ProductHandlerTestSuite) TestCreateProduct() {
	s.Run("created", func() {
		view := builder.NewProductBuilder().BuildView()
		s.mockCommands.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(view, nil)

		reqBody := builder.NewProductBuilder().BuildCreateRequestDTO()
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/products", reqBody)

		var resp resdto.ProductResponse
		commonhttp.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.Equal(view.ID, resp.ID)
		s.Equal(view.Name, resp.Name)
	})

	s.Run("duplicate name", func() {
		s.mockCommands.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(nil, errs.ErrDuplicateProductName)

		reqBody := builder.NewProductBuilder().BuildCreateRequestDTO()
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/products", reqBody)

		commonhttp.AssertErrorResponse(s.T(), w, http.StatusConflict, "already exists")
	})

	s.Run("domain validation", func() {
		s.mockCommands.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(nil, errs.ErrDomainValidation)

		reqBody := builder.NewProductBuilder().BuildCreateRequestDTO()
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/products", reqBody)

		commonhttp.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "validation")
	})

	s.Run("malformed body", func() {
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/products", map[string]any{"name": 42})
		commonhttp.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request")
	})
}

func (s *ProductHandlerTestSuite) TestGetProduct() {
	s.Run("found", func() {
		view := builder.NewProductBuilder().BuildView()
		s.mockQueries.EXPECT().GetProduct(gomock.Any(), view.ID).Return(view, nil)

		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodGet, "/products/"+view.ID.String(), nil)

		var resp resdto.ProductResponse
		commonhttp.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal(view.Name, resp.Name)
	})

	s.Run("not found", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetProduct(gomock.Any(), id).Return(nil, errs.ErrProductNotFound)

		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodGet, "/products/"+id.String(), nil)
		commonhttp.AssertErrorResponse(s.T(), w, http.StatusNotFound, "not found")
	})

	s.Run("invalid id", func() {
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodGet, "/products/not-a-uuid", nil)
		commonhttp.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid product ID")
	})
}

func (s *ProductHandlerTestSuite) TestUpdateProduct() {
	s.Run("updated", func() {
		view := builder.NewProductBuilder().BuildView()
		s.mockCommands.EXPECT().UpdateProduct(gomock.Any(), view.ID, gomock.Any()).Return(view, nil)

		reqBody := builder.NewProductBuilder().BuildUpdateRequestDTO()
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPut, "/products/"+view.ID.String(), reqBody)

		var resp resdto.ProductResponse
		commonhttp.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	})

	s.Run("not found", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().UpdateProduct(gomock.Any(), id, gomock.Any()).Return(nil, errs.ErrProductNotFound)

		reqBody := builder.NewProductBuilder().BuildUpdateRequestDTO()
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPut, "/products/"+id.String(), reqBody)
		commonhttp.AssertErrorResponse(s.T(), w, http.StatusNotFound, "not found")
	})
}

func (s *ProductHandlerTestSuite) TestDeleteProduct() {
	s.Run("deleted", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().DeleteProduct(gomock.Any(), id).Return(nil)

		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodDelete, "/products/"+id.String(), nil)
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("not found", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().DeleteProduct(gomock.Any(), id).Return(errs.ErrProductNotFound)

		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodDelete, "/products/"+id.String(), nil)
		commonhttp.AssertErrorResponse(s.T(), w, http.StatusNotFound, "not found")
	})
}

func (s *ProductHandlerTestSuite) TestReserveStock() {
	productID := uuid.New()
	reservationID := uuid.New()
	reservePath := func() string {
		return "/products/" + productID.String() + "/reserve?quantity=3&reservation_id=" + reservationID.String()
	}

	s.Run("reserved", func() {
		s.mockInventory.EXPECT().Reserve(gomock.Any(), productID, int32(3), reservationID).Return(nil)

		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, reservePath(), nil)

		var resp resdto.ReserveResponse
		commonhttp.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.True(resp.Reserved)
	})

	s.Run("insufficient stock answers reserved false with 200", func() {
		s.mockInventory.EXPECT().Reserve(gomock.Any(), productID, int32(3), reservationID).Return(errs.ErrInsufficientStock)

		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, reservePath(), nil)

		var resp resdto.ReserveResponse
		commonhttp.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.False(resp.Reserved)
	})

	s.Run("unknown product", func() {
		s.mockInventory.EXPECT().Reserve(gomock.Any(), productID, int32(3), reservationID).Return(errs.ErrProductNotFound)

		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, reservePath(), nil)
		commonhttp.AssertErrorResponse(s.T(), w, http.StatusNotFound, "not found")
	})

	s.Run("missing quantity", func() {
		path := "/products/" + productID.String() + "/reserve?reservation_id=" + reservationID.String()
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, path, nil)
		commonhttp.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Quantity")
	})

	s.Run("missing reservation id", func() {
		path := "/products/" + productID.String() + "/reserve?quantity=3"
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, path, nil)
		commonhttp.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "reservation ID")
	})
}

func (s *ProductHandlerTestSuite) TestReleaseStock() {
	productID := uuid.New()
	reservationID := uuid.New()
	path := "/products/" + productID.String() + "/release?quantity=3&reservation_id=" + reservationID.String()

	s.Run("released", func() {
		s.mockInventory.EXPECT().Release(gomock.Any(), productID, int32(3), reservationID).Return(nil)

		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, path, nil)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("unknown reservation still acks", func() {
		s.mockInventory.EXPECT().Release(gomock.Any(), productID, int32(3), reservationID).Return(nil)

		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, path, nil)
		s.Equal(http.StatusOK, w.Code)
	})
}
