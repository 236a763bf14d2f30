package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pitch-booking/internal/model"
)

// PitchStore is implemented by repository.PitchRepo.
type PitchStore interface {
	Create(ctx context.Context, p *model.Pitch) error
	GetByID(ctx context.Context, id uint64) (*model.Pitch, error)
	List(ctx context.Context) ([]model.Pitch, error)
}

type PitchHandler struct {
	pitches PitchStore
}

func NewPitchHandler(p PitchStore) *PitchHandler { return &PitchHandler{pitches: p} }

type createPitchReq struct {
	Name     string `json:"name" validate:"required,max=120"`
	Location string `json:"location" validate:"max=255"`
	Surface  string `json:"surface" validate:"omitempty,oneof=grass turf indoor"`
	Capacity int    `json:"capacity" validate:"min=0,max=50"`
}

// defaultCapacity is five-a-side with both teams full.
const defaultCapacity = 10

func (h *PitchHandler) List(c echo.Context) error {
	ctx, cancel := timeout(c)
	defer cancel()

	ps, err := h.pitches.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ps)
}

func (h *PitchHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pitch id"})
	}
	ctx, cancel := timeout(c)
	defer cancel()

	p, err := h.pitches.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PitchHandler) Create(c echo.Context) error {
	var req createPitchReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p := model.Pitch{Name: req.Name, Location: req.Location, Surface: req.Surface, Capacity: req.Capacity}
	if p.Capacity == 0 {
		p.Capacity = defaultCapacity
	}
	ctx, cancel := timeout(c)
	defer cancel()

	if err := h.pitches.Create(ctx, &p); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}
