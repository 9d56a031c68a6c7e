package httpt

import (
	"net/http"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/service"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// draftView snapshots the current step for the response body. Must run
// inside draft.Do.
func draftView(id uuid.UUID, w *wizard.Wizard) draftResponse {
	resp := draftResponse{
		DraftID:       id.String(),
		Step:          int(w.Step()),
		StepName:      w.Step().String(),
		Category:      string(w.Category()),
		Authenticated: w.User() != nil,
	}

	switch w.Step() {
	case wizard.StepVehicle:
		if f, err := w.Vehicle(); err == nil {
			resp.Vehicle = &vehicleFormView{
				InputMethod:  string(f.Mode),
				VIN:          f.VIN,
				Make:         f.Make,
				Model:        f.Model,
				Year:         f.Year,
				EngineVolume: f.EngineVolume,
				FuelType:     f.FuelType,
			}
		}
	case wizard.StepParts:
		if f, err := w.Parts(); err == nil {
			resp.Parts = f.Rows()
		}
	case wizard.StepContact:
		if f, err := w.Contact(); err == nil {
			resp.Contact = &contactFormView{
				Name:          f.Name,
				Email:         f.Email,
				Phone:         f.Phone,
				CountryCode:   f.CountryCode,
				City:          f.City,
				Comments:      f.Comments,
				CreateAccount: f.CreateAccount,
			}
		}
	}

	return resp
}

func (h *OrderHandler) startDraftHandler(c *gin.Context) {
	draft := h.orders.StartDraft(currentUser(c))

	var resp draftResponse
	_ = draft.Do(func(w *wizard.Wizard) error {
		resp = draftView(draft.ID, w)
		return nil
	})

	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) getDraftHandler(c *gin.Context) {
	const op = "transport.getDraftHandler"

	draft, ok := h.loadDraft(c, op)
	if !ok {
		return
	}

	var resp draftResponse
	if err := draft.Do(func(w *wizard.Wizard) error {
		resp = draftView(draft.ID, w)
		return nil
	}); err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) selectCategoryHandler(c *gin.Context) {
	const op = "transport.selectCategoryHandler"

	draft, ok := h.loadDraft(c, op)
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	h.mutateDraft(c, op, draft, "category", func(w *wizard.Wizard) (wizard.Issues, error) {
		return w.SelectCategory(entity.VehicleCategory(req.Category))
	})
}

func (h *OrderHandler) setVehicleModeHandler(c *gin.Context) {
	const op = "transport.setVehicleModeHandler"

	draft, ok := h.loadDraft(c, op)
	if !ok {
		return
	}

	var req vehicleModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	var resp draftResponse
	err := draft.Do(func(w *wizard.Wizard) error {
		f, err := w.Vehicle()
		if err != nil {
			return err
		}
		if err = f.SetMode(wizard.Mode(req.InputMethod)); err != nil {
			return wizard.Issues{{Field: "inputMethod", Message: err.Error()}}.AsError()
		}
		resp = draftView(draft.ID, w)
		return nil
	})
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	h.orders.TouchDraft(draft)
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) submitVehicleHandler(c *gin.Context) {
	const op = "transport.submitVehicleHandler"

	draft, ok := h.loadDraft(c, op)
	if !ok {
		return
	}

	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	h.mutateDraft(c, op, draft, "vehicle", func(w *wizard.Wizard) (wizard.Issues, error) {
		f, err := w.Vehicle()
		if err != nil {
			return nil, err
		}

		if req.InputMethod != "" && wizard.Mode(req.InputMethod) != f.Mode {
			if err = f.SetMode(wizard.Mode(req.InputMethod)); err != nil {
				return wizard.Issues{{Field: "inputMethod", Message: err.Error()}}, nil
			}
		}

		f.VIN = req.VIN
		f.Make = req.Make
		f.Model = req.Model
		f.Year = req.Year
		f.EngineVolume = req.EngineVolume
		f.FuelType = req.FuelType

		return w.SubmitVehicle()
	})
}

func (h *OrderHandler) addPartRowHandler(c *gin.Context) {
	const op = "transport.addPartRowHandler"

	draft, ok := h.loadDraft(c, op)
	if !ok {
		return
	}

	h.editParts(c, op, draft, func(f *wizard.PartsForm) error {
		f.Add()
		return nil
	})
}

func (h *OrderHandler) removePartRowHandler(c *gin.Context) {
	const op = "transport.removePartRowHandler"

	draft, ok := h.loadDraft(c, op)
	if !ok {
		return
	}

	var req partRowIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	h.editParts(c, op, draft, func(f *wizard.PartsForm) error {
		return f.Remove(req.Index)
	})
}

func (h *OrderHandler) setPartQuantityHandler(c *gin.Context) {
	const op = "transport.setPartQuantityHandler"

	draft, ok := h.loadDraft(c, op)
	if !ok {
		return
	}

	var req partQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	h.editParts(c, op, draft, func(f *wizard.PartsForm) error {
		switch req.Action {
		case "increment":
			return f.Increment(req.Index)
		case "decrement":
			return f.Decrement(req.Index)
		default:
			return f.SetQuantity(req.Index, req.Value)
		}
	})
}

func (h *OrderHandler) submitPartsHandler(c *gin.Context) {
	const op = "transport.submitPartsHandler"

	draft, ok := h.loadDraft(c, op)
	if !ok {
		return
	}

	var req partsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	h.mutateDraft(c, op, draft, "parts", func(w *wizard.Wizard) (wizard.Issues, error) {
		f, err := w.Parts()
		if err != nil {
			return nil, err
		}
		if err = syncPartRows(f, req.Rows); err != nil {
			return nil, err
		}
		return w.SubmitParts()
	})
}

// syncPartRows replaces the form's rows with the submitted ones, reusing
// the row-level operations so quantity clamping still applies.
func syncPartRows(f *wizard.PartsForm, rows []wizard.PartRow) error {
	for f.Len() < len(rows) {
		f.Add()
	}
	for f.Len() > len(rows) {
		if err := f.Remove(f.Len() - 1); err != nil {
			return err
		}
	}
	for i, row := range rows {
		if err := f.Set(i, row); err != nil {
			return err
		}
	}
	return nil
}

func (h *OrderHandler) backHandler(c *gin.Context) {
	const op = "transport.backHandler"

	draft, ok := h.loadDraft(c, op)
	if !ok {
		return
	}

	var resp draftResponse
	if err := draft.Do(func(w *wizard.Wizard) error {
		h.wizMetrics.StepBack(w.Step().String())
		w.Back()
		resp = draftView(draft.ID, w)
		return nil
	}); err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	h.orders.TouchDraft(draft)
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) submitDraftHandler(c *gin.Context) {
	const op = "transport.submitDraftHandler"

	draft, ok := h.loadDraft(c, op)
	if !ok {
		return
	}

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	ctx, cancel := submitContext(c)
	defer cancel()

	order, createdUser, err := h.orders.SubmitDraft(ctx, draft, func(w *wizard.Wizard) error {
		f, err := w.Contact()
		if err != nil {
			return err
		}

		f.Name = req.Name
		f.Phone = req.Phone
		f.CountryCode = req.CountryCode
		f.City = req.City
		f.Comments = req.Comments
		if !f.Authenticated() {
			f.Email = req.Email
			f.CreateAccount = req.CreateAccount
			f.Password = req.Password
			f.PasswordConfirm = req.PasswordConfirm
		}
		return nil
	})
	if err != nil {
		h.wizMetrics.Submission("rejected")
		h.handleServiceError(c, err, op)
		return
	}

	h.wizMetrics.Submission("success")

	resp := orderResponse{Order: order, NewAccount: createdUser != nil}
	if createdUser != nil {
		if token, tokenErr := h.auth.Token(createdUser); tokenErr == nil {
			resp.Token = token
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// loadDraft resolves the :draft_id path param into a live draft, writing
// the error response itself when it cannot.
func (h *OrderHandler) loadDraft(c *gin.Context, op string) (*service.Draft, bool) {
	raw := c.Param("draft_id")

	id, err := uuid.Parse(raw)
	if err != nil {
		h.handleInvalidUUID(c, op, raw)
		return nil, false
	}

	draft, err := h.orders.Draft(id)
	if err != nil {
		h.handleServiceError(c, err, op)
		return nil, false
	}
	return draft, true
}

// mutateDraft runs a step submit under the draft lock, records the step
// metric and writes the refreshed draft view or the field issues.
func (h *OrderHandler) mutateDraft(
	c *gin.Context,
	op string,
	draft *service.Draft,
	step string,
	fn func(w *wizard.Wizard) (wizard.Issues, error),
) {
	var resp draftResponse
	var issues wizard.Issues

	err := draft.Do(func(w *wizard.Wizard) error {
		var fnErr error
		issues, fnErr = fn(w)
		if fnErr != nil {
			return fnErr
		}
		resp = draftView(draft.ID, w)
		return nil
	})
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	h.orders.TouchDraft(draft)

	if !issues.Empty() {
		h.wizMetrics.StepRejected(step)
		h.respondIssues(c, issues)
		return
	}

	h.wizMetrics.StepAdvanced(step)
	c.JSON(http.StatusOK, resp)
}

// editParts applies one row operation without advancing the step.
func (h *OrderHandler) editParts(
	c *gin.Context,
	op string,
	draft *service.Draft,
	fn func(f *wizard.PartsForm) error,
) {
	var resp draftResponse

	err := draft.Do(func(w *wizard.Wizard) error {
		f, err := w.Parts()
		if err != nil {
			return err
		}
		if err = fn(f); err != nil {
			return wizard.Issues{{Field: "parts", Message: err.Error()}}.AsError()
		}
		resp = draftView(draft.ID, w)
		return nil
	})
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	h.orders.TouchDraft(draft)
	c.JSON(http.StatusOK, resp)
}
