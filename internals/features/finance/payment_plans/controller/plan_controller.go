// 📁 controller/plan_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tesfa_backend/internals/features/finance/payment_plans/dto"
	"tesfa_backend/internals/features/finance/payment_plans/model"
	"tesfa_backend/internals/features/finance/payment_plans/service"
	helper "tesfa_backend/internals/helpers"
	"tesfa_backend/internals/helpers/filterq"
)

type PlanController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPlanController(db *gorm.DB) *PlanController {
	return &PlanController{DB: db, Validator: validator.New()}
}

/* =========================
   List (GET /payment-plans)
========================= */

func (ctrl *PlanController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)

	f := filterq.New().
		Eq("plan_status", c.Query("status")).
		Eq("plan_frequency_unit", c.Query("frequency_unit")).
		DateFrom("plan_next_payment_due", c.Query("due_from")).
		DateTo("plan_next_payment_due", c.Query("due_to"))
	if v := c.Query("donor_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.EqID("plan_donor_id", id)
		}
	}

	base := ctrl.DB.WithContext(c.Context()).Model(&model.DonorPaymentPlan{})

	var rows []model.DonorPaymentPlan
	if err := f.Apply(base.Session(&gorm.Session{})).
		Order("plan_next_payment_due ASC NULLS LAST, created_at DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	// Plan health cards: the filtered aggregate reuses the listing fragments.
	var stats struct {
		Cnt       int64
		Expected  decimal.Decimal
		Collected decimal.Decimal
		Remaining decimal.Decimal
	}
	if err := f.Apply(base.Session(&gorm.Session{})).
		Select(`COUNT(*) AS cnt,
			COALESCE(SUM(plan_total_amount), 0) AS expected,
			COALESCE(SUM(plan_amount_paid), 0) AS collected,
			COALESCE(SUM(plan_balance), 0) AS remaining`).
		Scan(&stats).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return helper.JsonListEx(c, "", rows,
		helper.BuildPaginationFromPage(stats.Cnt, pg.Page, pg.PerPage),
		fiber.Map{
			"expected_total":  stats.Expected,
			"collected_total": stats.Collected,
			"remaining_total": stats.Remaining,
		})
}

/* =========================
   Create
========================= */

func (ctrl *PlanController) Create(c *fiber.Ctx) error {
	var body dto.CreatePlanRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	start, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}
	donorID, _ := uuid.Parse(body.DonorID)
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	in := service.CreatePlanInput{
		DonorID:         donorID,
		MonthlyAmount:   body.MonthlyAmount,
		DurationMonths:  body.DurationMonths,
		StartDate:       start,
		PaymentDay:      body.PaymentDay,
		Method:          body.Method,
		FrequencyUnit:   body.FrequencyUnit,
		FrequencyNumber: body.FrequencyNumber,
	}
	if body.PledgeID != nil {
		if id, perr := uuid.Parse(*body.PledgeID); perr == nil {
			in.PledgeID = &id
		}
	}

	plan, serr := service.CreatePlan(ctrl.DB.WithContext(c.Context()), &userID, in)
	if serr != nil {
		return helper.JsonAppError(c, serr)
	}
	return helper.JsonCreated(c, "payment plan created", plan)
}

/* =========================
   Status
========================= */

func (ctrl *PlanController) SetStatus(c *fiber.Ctx) error {
	planID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid plan id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.SetPlanStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	plan, serr := service.SetStatus(ctrl.DB.WithContext(c.Context()), &userID, planID, body.Status)
	if serr != nil {
		return helper.JsonAppError(c, serr)
	}
	return helper.JsonUpdated(c, "plan status updated", plan)
}

/* =========================
   Detail
========================= */

func (ctrl *PlanController) GetByID(c *fiber.Ctx) error {
	planID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid plan id")
	}

	var plan model.DonorPaymentPlan
	if err := ctrl.DB.WithContext(c.Context()).
		First(&plan, "plan_id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "payment plan not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return helper.JsonOK(c, "", plan)
}
