package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
	"github.com/mamadbah2/dairyflow/internal/service/records"
)

// RecordsHandler exposes the record collections.
type RecordsHandler struct {
	svc    *records.Service
	logger *zap.Logger
}

// NewRecordsHandler constructs the HTTP handler adapter.
func NewRecordsHandler(svc *records.Service, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, logger: logger}
}

// ListAnimals handles GET /animals.
func (h *RecordsHandler) ListAnimals(c *gin.Context) {
	animals, err := h.svc.Animals(c.Request.Context(), records.AnimalFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	})
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, listOf(animals))
}

// CreateAnimal handles POST /animals.
func (h *RecordsHandler) CreateAnimal(c *gin.Context) {
	var form ingestion.AnimalForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	animal, err := h.svc.AddAnimal(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, animal)
}

// GetAnimal handles GET /animals/:id.
func (h *RecordsHandler) GetAnimal(c *gin.Context) {
	animal, err := h.svc.GetAnimal(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, animal)
}

// UpdateAnimalStatus handles PATCH /animals/:id/status.
func (h *RecordsHandler) UpdateAnimalStatus(c *gin.Context) {
	var form ingestion.StatusForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	animal, err := h.svc.UpdateAnimalStatus(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, animal)
}

// Pedigree handles GET /animals/:id/pedigree.
func (h *RecordsHandler) Pedigree(c *gin.Context) {
	p, err := h.svc.Pedigree(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListHealthRecords handles GET /health-records.
func (h *RecordsHandler) ListHealthRecords(c *gin.Context) {
	rows, err := h.svc.HealthRecords(c.Request.Context(), records.HealthFilter{
		Search:   c.Query("search"),
		Type:     c.Query("type"),
		AnimalID: c.Query("animalId"),
	})
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, listOf(rows))
}

// CreateHealthRecord handles POST /health-records.
func (h *RecordsHandler) CreateHealthRecord(c *gin.Context) {
	var form ingestion.HealthRecordForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	record, err := h.svc.AddHealthRecord(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListMilkRecords handles GET /milk-records.
func (h *RecordsHandler) ListMilkRecords(c *gin.Context) {
	rows, err := h.svc.MilkRecords(c.Request.Context(), records.MilkFilter{
		Date:     c.Query("date"),
		AnimalID: c.Query("animalId"),
	})
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, listOf(rows))
}

// CreateMilkRecord handles POST /milk-records.
func (h *RecordsHandler) CreateMilkRecord(c *gin.Context) {
	var form ingestion.MilkRecordForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	record, err := h.svc.AddMilkRecord(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListBreedingRecords handles GET /breeding-records.
func (h *RecordsHandler) ListBreedingRecords(c *gin.Context) {
	rows, err := h.svc.BreedingRecords(c.Request.Context(), records.BreedingFilter{
		AnimalID: c.Query("animalId"),
		Type:     c.Query("type"),
	})
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, listOf(rows))
}

// CreateBreedingRecord handles POST /breeding-records.
func (h *RecordsHandler) CreateBreedingRecord(c *gin.Context) {
	var form ingestion.BreedingRecordForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	record, err := h.svc.AddBreedingRecord(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListFeedItems handles GET /feed-items.
func (h *RecordsHandler) ListFeedItems(c *gin.Context) {
	items, err := h.svc.FeedItems(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, listOf(items))
}

// CreateFeedItem handles POST /feed-items.
func (h *RecordsHandler) CreateFeedItem(c *gin.Context) {
	var form ingestion.FeedItemForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	item, err := h.svc.AddFeedItem(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateFeedStock handles PATCH /feed-items/:id/stock.
func (h *RecordsHandler) UpdateFeedStock(c *gin.Context) {
	var form ingestion.StockForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	item, err := h.svc.UpdateFeedStock(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListTransactions handles GET /transactions.
func (h *RecordsHandler) ListTransactions(c *gin.Context) {
	txs, err := h.svc.Transactions(c.Request.Context(), records.TransactionFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, listOf(txs))
}

// CreateTransaction handles POST /transactions.
func (h *RecordsHandler) CreateTransaction(c *gin.Context) {
	var form ingestion.TransactionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badBody(c, h.logger, err)
		return
	}
	tx, err := h.svc.AddTransaction(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, tx)
}
