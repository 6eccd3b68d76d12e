//go:build e2e

package catalog_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"

	"ordersvc/internal/handler/dto/response"
	"ordersvc/tests/common/builder"
	commonhttp "ordersvc/tests/common/httptest"
	"ordersvc/tests/e2e"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const productsURL = "/api/products"

type CatalogSuite struct {
	e2e.SharedSuite
}

func TestCatalogSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) createProduct(name string, stock int32) response.ProductResponse {
	t := s.T()

	reqBody := builder.NewProductBuilder().WithName(name).WithStock(stock).BuildCreateRequestDTO()
	w := commonhttp.PerformRequest(t, s.CatalogRouter, http.MethodPost, productsURL, reqBody)

	var resp response.ProductResponse
	commonhttp.AssertSuccessResponse(t, w, http.StatusCreated, &resp)
	return resp
}

func (s *CatalogSuite) reserve(productID, reservationID uuid.UUID, quantity int32) *response.ReserveResponse {
	t := s.T()

	path := fmt.Sprintf("%s/%s/reserve?quantity=%d&reservation_id=%s", productsURL, productID, quantity, reservationID)
	w := commonhttp.PerformRequest(t, s.CatalogRouter, http.MethodPost, path, nil)
	if w.Code != http.StatusOK {
		return nil
	}

	var resp response.ReserveResponse
	commonhttp.AssertSuccessResponse(t, w, http.StatusOK, &resp)
	return &resp
}

func (s *CatalogSuite) release(productID, reservationID uuid.UUID, quantity int32) {
	t := s.T()

	path := fmt.Sprintf("%s/%s/release?quantity=%d&reservation_id=%s", productsURL, productID, quantity, reservationID)
	w := commonhttp.PerformRequest(t, s.CatalogRouter, http.MethodPost, path, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *CatalogSuite) stockOf(productID uuid.UUID) int32 {
	t := s.T()

	w := commonhttp.PerformRequest(t, s.CatalogRouter, http.MethodGet, productsURL+"/"+productID.String(), nil)
	var resp response.ProductResponse
	commonhttp.AssertSuccessResponse(t, w, http.StatusOK, &resp)
	return resp.Stock
}

// =============================================================================
// TestProductCRUD
// =============================================================================

func (s *CatalogSuite) TestProductCRUD() {
	s.Run("Normal case: create and fetch", func() {
		created := s.createProduct("Keyboard", 10)

		fetched := s.stockOf(created.ID)
		s.Equal(int32(10), fetched)
	})

	s.Run("Failure case: duplicate name is rejected", func() {
		t := s.T()
		s.createProduct("Keyboard", 10)

		reqBody := builder.NewProductBuilder().WithName("Keyboard").BuildCreateRequestDTO()
		w := commonhttp.PerformRequest(t, s.CatalogRouter, http.MethodPost, productsURL, reqBody)
		commonhttp.AssertErrorResponse(t, w, http.StatusConflict, "already exists")
	})

	s.Run("Normal case: update never touches stock", func() {
		t := s.T()
		created := s.createProduct("Keyboard", 10)

		reqBody := builder.NewProductBuilder().
			WithName("Keyboard Mk2").
			WithPrice(decimal.RequireFromString("129.00")).
			BuildUpdateRequestDTO()
		w := commonhttp.PerformRequest(t, s.CatalogRouter, http.MethodPut, productsURL+"/"+created.ID.String(), reqBody)

		var resp response.ProductResponse
		commonhttp.AssertSuccessResponse(t, w, http.StatusOK, &resp)
		s.Equal("Keyboard Mk2", resp.Name)
		s.Equal(int32(10), resp.Stock)
	})

	s.Run("Normal case: delete", func() {
		t := s.T()
		created := s.createProduct("Keyboard", 10)

		w := commonhttp.PerformRequest(t, s.CatalogRouter, http.MethodDelete, productsURL+"/"+created.ID.String(), nil)
		s.Equal(http.StatusNoContent, w.Code)

		getW := commonhttp.PerformRequest(t, s.CatalogRouter, http.MethodGet, productsURL+"/"+created.ID.String(), nil)
		commonhttp.AssertErrorResponse(t, getW, http.StatusNotFound, "not found")
	})
}

// =============================================================================
// TestReservationLedger
// =============================================================================

func (s *CatalogSuite) TestReservationLedger() {
	s.Run("Normal case: reserve decrements and release credits back", func() {
		created := s.createProduct("Keyboard", 10)
		reservationID := uuid.New()

		resp := s.reserve(created.ID, reservationID, 4)
		s.Require().NotNil(resp)
		s.True(resp.Reserved)
		s.Equal(int32(6), s.stockOf(created.ID))

		s.release(created.ID, reservationID, 4)
		s.Equal(int32(10), s.stockOf(created.ID))
	})

	s.Run("Idempotency case: replaying a reserve does not decrement twice", func() {
		created := s.createProduct("Keyboard", 10)
		reservationID := uuid.New()

		for i := 0; i < 3; i++ {
			resp := s.reserve(created.ID, reservationID, 4)
			s.Require().NotNil(resp)
			s.True(resp.Reserved)
		}
		s.Equal(int32(6), s.stockOf(created.ID))
	})

	s.Run("Idempotency case: replaying a refusal stays refused", func() {
		created := s.createProduct("Keyboard", 2)
		reservationID := uuid.New()

		resp := s.reserve(created.ID, reservationID, 5)
		s.Require().NotNil(resp)
		s.False(resp.Reserved)

		resp = s.reserve(created.ID, reservationID, 5)
		s.Require().NotNil(resp)
		s.False(resp.Reserved)
		s.Equal(int32(2), s.stockOf(created.ID))
	})

	s.Run("Idempotency case: double release credits only once", func() {
		created := s.createProduct("Keyboard", 10)
		reservationID := uuid.New()

		s.Require().NotNil(s.reserve(created.ID, reservationID, 4))
		s.release(created.ID, reservationID, 4)
		s.release(created.ID, reservationID, 4)
		s.Equal(int32(10), s.stockOf(created.ID))
	})

	s.Run("Failure case: reserve on unknown product returns 404", func() {
		t := s.T()

		path := fmt.Sprintf("%s/%s/reserve?quantity=1&reservation_id=%s", productsURL, uuid.New(), uuid.New())
		w := commonhttp.PerformRequest(t, s.CatalogRouter, http.MethodPost, path, nil)
		commonhttp.AssertErrorResponse(t, w, http.StatusNotFound, "not found")
	})

	s.Run("Ack case: release of an unknown reservation succeeds", func() {
		created := s.createProduct("Keyboard", 10)
		s.release(created.ID, uuid.New(), 4)
		s.Equal(int32(10), s.stockOf(created.ID))
	})
}

// =============================================================================
// TestConcurrentReservations
// =============================================================================

func (s *CatalogSuite) TestConcurrentReservations() {
	s.Run("Normal case: contended reservations sell exactly the available stock", func() {
		created := s.createProduct("Keyboard", 10)

		// 8 competing reservations of 3 units against 10 in stock: only 3 can
		// win, leaving 1 unit behind.
		const attempts = 8
		const quantity = 3

		results := make(chan bool, attempts)
		var wg sync.WaitGroup
		wg.Add(attempts)
		for i := 0; i < attempts; i++ {
			go func() {
				defer wg.Done()
				path := fmt.Sprintf("%s/%s/reserve?quantity=%d&reservation_id=%s",
					productsURL, created.ID, quantity, uuid.New())
				req := nethttptest.NewRequest(http.MethodPost, path, nil)
				w := nethttptest.NewRecorder()
				s.CatalogRouter.ServeHTTP(w, req)
				if w.Code != http.StatusOK {
					results <- false
					return
				}
				var resp response.ReserveResponse
				results <- json.Unmarshal(w.Body.Bytes(), &resp) == nil && resp.Reserved
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for reserved := range results {
			if reserved {
				succeeded++
			}
		}

		s.Equal(3, succeeded)
		s.Equal(int32(1), s.stockOf(created.ID))
	})
}
