// 📁 controller/pledge_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditService "tesfa_backend/internals/features/audit/service"
	reconService "tesfa_backend/internals/features/donors/reconciliation/service"
	"tesfa_backend/internals/features/finance/pledges/dto"
	"tesfa_backend/internals/features/finance/pledges/model"
	helper "tesfa_backend/internals/helpers"
	"tesfa_backend/internals/helpers/dbutil"
	"tesfa_backend/internals/helpers/filterq"
)

type PledgeController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPledgeController(db *gorm.DB) *PledgeController {
	return &PledgeController{DB: db, Validator: validator.New()}
}

/* =========================
   List (GET /pledges)
========================= */

func (ctrl *PledgeController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)

	f := filterq.New().
		Eq("pledge_status", c.Query("status")).
		DateFrom("created_at", c.Query("date_from")).
		DateTo("created_at", c.Query("date_to")).
		Search(c.Query("q"), "pledge_notes")
	if v := c.Query("donor_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.EqID("pledge_donor_id", id)
		}
	}

	base := ctrl.DB.WithContext(c.Context()).Model(&model.Pledge{})

	var total int64
	if err := f.Apply(base.Session(&gorm.Session{})).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	var rows []model.Pledge
	if err := f.Apply(base.Session(&gorm.Session{})).
		Order("created_at DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage))
}

/* =========================
   Create
========================= */

func (ctrl *PledgeController) Create(c *fiber.Ctx) error {
	var body dto.CreatePledgeRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if !body.Amount.IsPositive() {
		return helper.JsonError(c, fiber.StatusBadRequest, "pledge amount must be greater than zero")
	}

	donorID, _ := uuid.Parse(body.DonorID)
	pledge := model.Pledge{
		PledgeDonorID: donorID,
		PledgeAmount:  body.Amount,
		PledgeNotes:   body.Notes,
	}
	if userID, err := helper.GetUserIDFromToken(c); err == nil {
		pledge.PledgeCreatedByUserID = &userID
	}

	if err := ctrl.DB.WithContext(c.Context()).Create(&pledge).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save pledge")
	}
	return helper.JsonCreated(c, "pledge created", pledge)
}

/* =========================
   Update (amount/notes)
========================= */

func (ctrl *PledgeController) Update(c *fiber.Ctx) error {
	pledgeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid pledge id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.UpdatePledgeRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Amount != nil && !body.Amount.IsPositive() {
		return helper.JsonError(c, fiber.StatusBadRequest, "pledge amount must be greater than zero")
	}

	var updated model.Pledge
	terr := ctrl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var pledge model.Pledge
		if err := dbutil.LockForUpdate(tx).
			First(&pledge, "pledge_id = ?", pledgeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "pledge not found")
			}
			return err
		}

		before := pledge
		if body.Amount != nil {
			pledge.PledgeAmount = *body.Amount
		}
		if body.Notes != nil {
			pledge.PledgeNotes = *body.Notes
		}
		if err := tx.Save(&pledge).Error; err != nil {
			return err
		}

		if err := auditService.Record(tx, &userID, "pledge",
			pledge.PledgeID.String(), "edit", before, pledge, "admin"); err != nil {
			return err
		}

		// Amount edits on an approved pledge move total_pledged.
		if body.Amount != nil && pledge.PledgeStatus == model.PledgeStatusApproved {
			if _, err := reconService.Reconcile(tx, &userID, pledge.PledgeDonorID,
				reconService.ModeRecalculate, nil); err != nil {
				return err
			}
		}

		updated = pledge
		return nil
	})
	if terr != nil {
		var fe *fiber.Error
		if errors.As(terr, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonAppError(c, terr)
	}
	return helper.JsonUpdated(c, "pledge updated", updated)
}

/* =========================
   Status (approve/reject/cancel)
========================= */

func (ctrl *PledgeController) SetStatus(c *fiber.Ctx) error {
	pledgeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid pledge id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.SetPledgeStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var updated model.Pledge
	terr := ctrl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var pledge model.Pledge
		if err := dbutil.LockForUpdate(tx).
			First(&pledge, "pledge_id = ?", pledgeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "pledge not found")
			}
			return err
		}

		before := pledge
		pledge.PledgeStatus = body.Status
		if err := tx.Save(&pledge).Error; err != nil {
			return err
		}

		if err := auditService.Record(tx, &userID, "pledge",
			pledge.PledgeID.String(), "status_change", before, pledge, "admin"); err != nil {
			return err
		}

		// Approval state drives total_pledged; recalculate either way so a
		// revoked approval also shrinks the snapshot.
		if _, err := reconService.Reconcile(tx, &userID, pledge.PledgeDonorID,
			reconService.ModeRecalculate, nil); err != nil {
			return err
		}

		updated = pledge
		return nil
	})
	if terr != nil {
		var fe *fiber.Error
		if errors.As(terr, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonAppError(c, terr)
	}
	return helper.JsonUpdated(c, "pledge status updated", updated)
}
