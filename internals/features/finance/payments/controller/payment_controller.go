// 📁 controller/payment_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	database "tesfa_backend/internals/databases"
	"tesfa_backend/internals/features/finance/payments/dto"
	"tesfa_backend/internals/features/finance/payments/model"
	"tesfa_backend/internals/features/finance/payments/service"
	helper "tesfa_backend/internals/helpers"
	"tesfa_backend/internals/helpers/filterq"
)

type PaymentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, Validator: validator.New()}
}

/* =========================
   List (GET /payments)
========================= */

// pledgePaymentFilter builds the shared predicate set for the listing and
// the stat cards from the request's query params.
func pledgePaymentFilter(c *fiber.Ctx) *filterq.Builder {
	f := filterq.New().
		Eq("pledge_payment_status", c.Query("status")).
		Eq("pledge_payment_method", c.Query("method")).
		DateFrom("pledge_payment_date", c.Query("date_from")).
		DateTo("pledge_payment_date", c.Query("date_to")).
		Search(c.Query("q"),
			database.Caps.PledgePaymentReferenceCol,
			"pledge_payment_notes")
	if v := c.Query("donor_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.EqID("pledge_payment_donor_id", id)
		}
	}
	if v := c.Query("plan_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.EqID("pledge_payment_plan_id", id)
		}
	}
	return f
}

type paymentStats struct {
	Count int64           `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

func aggregate(q *gorm.DB, amountCol string) (paymentStats, error) {
	var row struct {
		Cnt   int64
		Total decimal.Decimal
	}
	err := q.Select("COUNT(*) AS cnt, COALESCE(SUM(" + amountCol + "), 0) AS total").
		Scan(&row).Error
	return paymentStats{Count: row.Cnt, Sum: row.Total}, err
}

func (ctrl *PaymentController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)
	f := pledgePaymentFilter(c)

	base := ctrl.DB.WithContext(c.Context()).Model(&model.PledgePayment{})

	var rows []model.PledgePayment
	if err := f.Apply(base.Session(&gorm.Session{})).
		Order("created_at DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	// Overall and filtered cards side by side; the filtered query reuses the
	// exact fragments the listing ran with.
	overall, err := aggregate(base.Session(&gorm.Session{}), "pledge_payment_amount")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	filtered, err := aggregate(f.Apply(base.Session(&gorm.Session{})), "pledge_payment_amount")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return helper.JsonListEx(c, "", rows,
		helper.BuildPaginationFromPage(filtered.Count, pg.Page, pg.PerPage),
		fiber.Map{
			"overall":  overall,
			"filtered": filtered,
		})
}

/* =========================
   Create
========================= */

func (ctrl *PaymentController) Create(c *fiber.Ctx) error {
	var body dto.CreatePledgePaymentRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if !body.Amount.IsPositive() {
		return helper.JsonError(c, fiber.StatusBadRequest, "amount must be greater than zero")
	}

	donorID, _ := uuid.Parse(body.DonorID)
	pledgeID, _ := uuid.Parse(body.PledgeID)

	// ID is generated here so the proof filename is known before commit; the
	// file itself is written only after the transaction succeeds.
	payment := model.PledgePayment{
		PledgePaymentID:              uuid.New(),
		PledgePaymentDonorID:         donorID,
		PledgePaymentPledgeID:        pledgeID,
		PledgePaymentAmount:          body.Amount,
		PledgePaymentMethod:          body.Method,
		PledgePaymentReferenceNumber: body.ReferenceNumber,
		PledgePaymentNotes:           body.Notes,
		PledgePaymentStatus:          model.PledgePaymentStatusPending,
	}
	if body.PlanID != nil {
		if id, err := uuid.Parse(*body.PlanID); err == nil {
			payment.PledgePaymentPlanID = &id
		}
	}
	if body.PaymentDate != "" {
		if d, err := time.Parse("2006-01-02", body.PaymentDate); err == nil {
			payment.PledgePaymentDate = &d
		}
	}

	var saveProof func() error
	if fh, ferr := c.FormFile("proof"); ferr == nil && fh != nil {
		path, perr := service.ProofFileName(payment.PledgePaymentID, fh.Filename)
		if perr != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "proof must be jpg, jpeg, png or pdf")
		}
		payment.PledgePaymentProof = path
		saveProof = func() error { return c.SaveFile(fh, path) }
	}

	if err := ctrl.DB.WithContext(c.Context()).Create(&payment).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save payment")
	}

	if saveProof != nil {
		if err := saveProof(); err != nil {
			// row is committed; the proof can be re-uploaded via edit
			return helper.JsonCreated(c, "payment recorded, proof upload failed", payment)
		}
	}
	return helper.JsonCreated(c, "payment recorded", payment)
}

/* =========================
   Reviewer actions
========================= */

func (ctrl *PaymentController) Confirm(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payment id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	payment, serr := service.ConfirmPledgePayment(ctrl.DB.WithContext(c.Context()), &userID, paymentID)
	if serr != nil {
		return helper.JsonAppError(c, serr)
	}
	return helper.JsonUpdated(c, "payment confirmed", payment)
}

func (ctrl *PaymentController) Void(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payment id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	payment, serr := service.VoidPledgePayment(ctrl.DB.WithContext(c.Context()), &userID, paymentID)
	if serr != nil {
		return helper.JsonAppError(c, serr)
	}
	return helper.JsonUpdated(c, "payment voided", payment)
}

/* =========================
   Edit / delete
========================= */

func (ctrl *PaymentController) Edit(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payment id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.EditPledgePaymentRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	in := service.EditPledgePaymentInput{
		ReferenceNumber: body.ReferenceNumber,
		Notes:           body.Notes,
	}
	if body.PaymentDate != nil {
		d, derr := time.Parse("2006-01-02", *body.PaymentDate)
		if derr != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "payment_date must be YYYY-MM-DD")
		}
		in.PaymentDate = &d
	}
	if body.ApprovedByUserID != nil {
		if id, perr := uuid.Parse(*body.ApprovedByUserID); perr == nil {
			in.ApprovedByUserID = &id
		}
	}

	// New proof file, if any: the path goes into the transaction, the bytes
	// are written only after commit, and the replaced file is removed last.
	var saveProof func() error
	if fh, ferr := c.FormFile("proof"); ferr == nil && fh != nil {
		path, perr := service.ProofFileName(paymentID, fh.Filename)
		if perr != nil {
			return helper.JsonAppError(c, perr)
		}
		in.ProofPath = &path
		saveProof = func() error { return c.SaveFile(fh, path) }
	}

	payment, replacedProof, serr := service.EditPledgePayment(ctrl.DB.WithContext(c.Context()), &userID, paymentID, in)
	if serr != nil {
		return helper.JsonAppError(c, serr)
	}

	if saveProof != nil {
		if err := saveProof(); err != nil {
			return helper.JsonUpdated(c, "payment updated, proof upload failed", payment)
		}
		service.RemoveProofFile(replacedProof)
	}
	return helper.JsonUpdated(c, "payment updated", payment)
}

func (ctrl *PaymentController) Delete(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payment id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	if serr := service.DeletePledgePayment(ctrl.DB.WithContext(c.Context()), &userID, paymentID); serr != nil {
		return helper.JsonAppError(c, serr)
	}
	return helper.JsonDeleted(c, "payment deleted", fiber.Map{"payment_id": paymentID})
}

/* =========================
   Instant payments
========================= */

func (ctrl *PaymentController) ListInstant(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)

	f := filterq.New().
		Eq("payment_status", c.Query("status")).
		Eq("payment_method", c.Query("method")).
		DateFrom(database.Caps.PaymentDateCol, c.Query("date_from")).
		DateTo(database.Caps.PaymentDateCol, c.Query("date_to")).
		Search(c.Query("q"),
			"payment_donor_phone",
			database.Caps.PaymentReferenceCol,
			"payment_notes")

	base := ctrl.DB.WithContext(c.Context()).Model(&model.InstantPayment{})

	var rows []model.InstantPayment
	if err := f.Apply(base.Session(&gorm.Session{})).
		Order("created_at DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	overall, err := aggregate(base.Session(&gorm.Session{}), "payment_amount")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	filtered, err := aggregate(f.Apply(base.Session(&gorm.Session{})), "payment_amount")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return helper.JsonListEx(c, "", rows,
		helper.BuildPaginationFromPage(filtered.Count, pg.Page, pg.PerPage),
		fiber.Map{
			"overall":  overall,
			"filtered": filtered,
		})
}

func (ctrl *PaymentController) CreateInstant(c *fiber.Ctx) error {
	var body dto.CreateInstantPaymentRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if !body.Amount.IsPositive() {
		return helper.JsonError(c, fiber.StatusBadRequest, "amount must be greater than zero")
	}

	payment := model.InstantPayment{
		PaymentDonorPhone:      body.DonorPhone,
		PaymentAmount:          body.Amount,
		PaymentMethod:          body.Method,
		PaymentReferenceNumber: body.ReferenceNumber,
		PaymentNotes:           body.Notes,
		PaymentStatus:          model.InstantStatusPending,
	}
	if body.PaymentDate != "" {
		if d, err := time.Parse("2006-01-02", body.PaymentDate); err == nil {
			payment.PaymentDate = &d
		}
	}

	if err := ctrl.DB.WithContext(c.Context()).Create(&payment).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save payment")
	}
	return helper.JsonCreated(c, "payment recorded", payment)
}

func (ctrl *PaymentController) ReviewInstant(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payment id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	approve := c.Query("action", "approve") == "approve"
	payment, serr := service.ReviewInstantPayment(ctrl.DB.WithContext(c.Context()), &userID, paymentID, approve)
	if serr != nil {
		return helper.JsonAppError(c, serr)
	}
	return helper.JsonUpdated(c, "payment reviewed", payment)
}
