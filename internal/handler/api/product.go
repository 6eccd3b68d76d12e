package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "ordersvc/internal/handler/dto/request"
	resdto "ordersvc/internal/handler/dto/response"
	"ordersvc/internal/pkg/errs"
	"ordersvc/internal/usecase/commands"
	"ordersvc/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productCommands   commands.ProductCommands
	inventoryCommands commands.InventoryCommands
	productQueries    queries.ProductQueries
}

func NewProductHandler(
	productCommands commands.ProductCommands,
	inventoryCommands commands.InventoryCommands,
	productQueries queries.ProductQueries,
) *ProductHandler {
	return &ProductHandler{
		productCommands:   productCommands,
		inventoryCommands: inventoryCommands,
		productQueries:    productQueries,
	}
}

// @Summary Create product
// @Description Register a new product with an initial stock level
// @Tags products
// @Accept json
// @Produce json
// @Param request body reqdto.CreateProductRequest true "Product request"
// @Success 201 {object} resdto.ProductResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req reqdto.CreateProductRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.productCommands.CreateProduct(c.Request.Context(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDuplicateProductName):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Product name already exists",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromProductView(view))
}

// @Summary Get product
// @Description Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} resdto.ProductResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID format",
		})
		return
	}

	view, err := h.productQueries.GetProduct(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromProductView(view))
}

// @Summary List products
// @Description List all products
// @Tags products
// @Produce json
// @Success 200 {array} resdto.ProductResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	views, err := h.productQueries.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromProductViews(views))
}

// @Summary Update product
// @Description Update product name, description and price. Stock is owned by
// @Description the reservation ledger and cannot be edited here.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body reqdto.UpdateProductRequest true "Product request"
// @Success 200 {object} resdto.ProductResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID format",
		})
		return
	}

	var req reqdto.UpdateProductRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.productCommands.UpdateProduct(c.Request.Context(), id, req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, errs.ErrDuplicateProductName):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Product name already exists",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromProductView(view))
}

// @Summary Delete product
// @Description Delete product by ID
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID format",
		})
		return
	}

	if err := h.productCommands.DeleteProduct(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Reserve stock
// @Description Atomically reserve stock for a product. Replaying the same
// @Description reservation_id returns the outcome of the first attempt.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Param quantity query int true "Quantity to reserve"
// @Param reservation_id query string true "Idempotency key for this reservation"
// @Success 200 {object} resdto.ReserveResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id}/reserve [post]
func (h *ProductHandler) ReserveStock(c *gin.Context) {
	productID, quantity, reservationID, ok := h.bindReservationParams(c)
	if !ok {
		return
	}

	err := h.inventoryCommands.Reserve(c.Request.Context(), productID, quantity, reservationID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInsufficientStock):
			// Not an error at the HTTP level: the caller asked whether the
			// stock could be reserved, and the answer is no.
			c.JSON(http.StatusOK, resdto.ReserveResponse{Reserved: false})
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, errs.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Quantity must be positive",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.ReserveResponse{Reserved: true})
}

// @Summary Release stock
// @Description Return previously reserved stock. Releasing an unknown or
// @Description already-released reservation is acknowledged without effect.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Param quantity query int true "Quantity to release"
// @Param reservation_id query string true "Reservation to release"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /products/{id}/release [post]
func (h *ProductHandler) ReleaseStock(c *gin.Context) {
	productID, quantity, reservationID, ok := h.bindReservationParams(c)
	if !ok {
		return
	}

	err := h.inventoryCommands.Release(c.Request.Context(), productID, quantity, reservationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "released"})
}

func (h *ProductHandler) bindReservationParams(c *gin.Context) (uuid.UUID, int32, uuid.UUID, bool) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID format",
		})
		return uuid.Nil, 0, uuid.Nil, false
	}

	quantity, err := strconv.ParseInt(c.Query("quantity"), 10, 32)
	if err != nil || quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Quantity must be a positive integer",
		})
		return uuid.Nil, 0, uuid.Nil, false
	}

	reservationID, err := uuid.Parse(c.Query("reservation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return uuid.Nil, 0, uuid.Nil, false
	}

	return productID, int32(quantity), reservationID, true
}
