// 📁 controller/report_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	database "tesfa_backend/internals/databases"
	donorModel "tesfa_backend/internals/features/donors/donors/model"
	paymentModel "tesfa_backend/internals/features/finance/payments/model"
	pledgeModel "tesfa_backend/internals/features/finance/pledges/model"
	helper "tesfa_backend/internals/helpers"
	"tesfa_backend/internals/helpers/filterq"
)

// ReportController serves the dashboard read models. Every card pairs an
// overall figure with a filtered one produced by the same predicate set, so
// the numbers on screen can never disagree with the list below them.
type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

type moneyStat struct {
	Count int64           `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

func sumCount(q *gorm.DB, amountCol string) (moneyStat, error) {
	var row struct {
		Cnt   int64
		Total decimal.Decimal
	}
	err := q.Select("COUNT(*) AS cnt, COALESCE(SUM(" + amountCol + "), 0) AS total").
		Scan(&row).Error
	return moneyStat{Count: row.Cnt, Sum: row.Total}, err
}

/* =========================
   GET /reports/payments
========================= */

func (ctrl *ReportController) PaymentStatistics(c *fiber.Ctx) error {
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

	base := ctrl.DB.WithContext(c.Context()).Model(&paymentModel.PledgePayment{})

	overall, err := sumCount(base.Session(&gorm.Session{}), "pledge_payment_amount")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	filtered, err := sumCount(f.Apply(base.Session(&gorm.Session{})), "pledge_payment_amount")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	confirmed, err := sumCount(
		base.Session(&gorm.Session{}).
			Where("pledge_payment_status = ?", paymentModel.PledgePaymentStatusConfirmed),
		"pledge_payment_amount")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return helper.JsonOK(c, "", fiber.Map{
		"overall":   overall,
		"filtered":  filtered,
		"confirmed": confirmed,
	})
}

/* =========================
   GET /reports/overview
========================= */

func (ctrl *ReportController) Overview(c *fiber.Ctx) error {
	db := ctrl.DB.WithContext(c.Context())

	// Donor counts by reconciliation status.
	var buckets []struct {
		Status string
		Cnt    int64
	}
	if err := db.Model(&donorModel.Donor{}).
		Select("donor_payment_status AS status, COUNT(*) AS cnt").
		Group("donor_payment_status").
		Scan(&buckets).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	statusCounts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		statusCounts[b.Status] = b.Cnt
	}

	pledged, err := sumCount(
		db.Model(&pledgeModel.Pledge{}).
			Where("pledge_status = ?", pledgeModel.PledgeStatusApproved),
		"pledge_amount")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	collected, err := sumCount(
		db.Model(&paymentModel.PledgePayment{}).
			Where("pledge_payment_status = ?", paymentModel.PledgePaymentStatusConfirmed),
		"pledge_payment_amount")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	instant, err := sumCount(
		db.Model(&paymentModel.InstantPayment{}).
			Where("payment_status = ?", paymentModel.InstantStatusApproved),
		"payment_amount")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	var donorTotal int64
	if err := db.Model(&donorModel.Donor{}).Count(&donorTotal).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return helper.JsonOK(c, "", fiber.Map{
		"donor_total":       donorTotal,
		"status_counts":     statusCounts,
		"pledged":           pledged,
		"collected":         collected,
		"instant_collected": instant,
	})
}
