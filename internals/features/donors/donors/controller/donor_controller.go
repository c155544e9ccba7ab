// 📁 controller/donor_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	database "tesfa_backend/internals/databases"
	auditService "tesfa_backend/internals/features/audit/service"
	"tesfa_backend/internals/features/donors/donors/dto"
	"tesfa_backend/internals/features/donors/donors/model"
	reconService "tesfa_backend/internals/features/donors/reconciliation/service"
	paymentModel "tesfa_backend/internals/features/finance/payments/model"
	paymentService "tesfa_backend/internals/features/finance/payments/service"
	pledgeModel "tesfa_backend/internals/features/finance/pledges/model"
	pledgeService "tesfa_backend/internals/features/finance/pledges/service"
	helper "tesfa_backend/internals/helpers"
	"tesfa_backend/internals/helpers/dbutil"
	"tesfa_backend/internals/helpers/filterq"
)

type DonorController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewDonorController(db *gorm.DB) *DonorController {
	return &DonorController{DB: db, Validator: validator.New()}
}

/* =========================
   List (GET /donors)
========================= */

// donorListQuery holds the raw listing filters. Both the page itself and its
// status cards derive their fragments from one instance, so the two can
// never disagree on which donors are in scope.
type donorListQuery struct {
	Status           string
	Method           string
	City             string
	Search           string
	DateFrom         string
	DateTo           string
	ChurchID         string
	RepresentativeID string
	FlaggedOnly      bool
}

func parseDonorListQuery(c *fiber.Ctx) donorListQuery {
	return donorListQuery{
		Status:           c.Query("status"),
		Method:           c.Query("method"),
		City:             c.Query("city"),
		Search:           c.Query("q"),
		DateFrom:         c.Query("date_from"),
		DateTo:           c.Query("date_to"),
		ChurchID:         c.Query("church_id"),
		RepresentativeID: c.Query("representative_id"),
		FlaggedOnly:      c.Query("flagged") == "true",
	}
}

// filter builds the fragment set. includeStatus is false for the status
// buckets, which group over every status the other filters leave in scope.
func (q donorListQuery) filter(includeStatus bool) *filterq.Builder {
	f := filterq.New()
	if includeStatus {
		f.Eq("donor_payment_status", q.Status)
	}
	f.Eq("donor_preferred_payment_method", q.Method).
		Eq("donor_city", q.City).
		DateFrom("created_at", q.DateFrom).
		DateTo("created_at", q.DateTo).
		Search(q.Search, "donor_name", "donor_phone", "donor_email")
	if q.ChurchID != "" {
		if id, err := uuid.Parse(q.ChurchID); err == nil {
			f.EqID("donor_church_id", id)
		}
	}
	if q.RepresentativeID != "" {
		// degrades to no-op when the schema has no representative column
		if id, err := uuid.Parse(q.RepresentativeID); err == nil {
			f.EqID(database.Caps.DonorRepresentativeCol, id)
		}
	}
	if q.FlaggedOnly {
		f.EqID("donor_flagged_for_followup", true)
	}
	return f
}

func (ctrl *DonorController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)

	query := parseDonorListQuery(c)
	f := query.filter(true)

	base := ctrl.DB.WithContext(c.Context()).Model(&model.Donor{})

	var total int64
	if err := f.Apply(base.Session(&gorm.Session{})).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	var rows []model.Donor
	if err := f.Apply(base.Session(&gorm.Session{})).
		Order("created_at DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	// Same query, status filter dropped, so the cards always agree with the
	// listing under every other active filter.
	buckets, err := statusBuckets(ctrl.DB.WithContext(c.Context()), query)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return helper.JsonListEx(c, "", rows,
		helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage),
		fiber.Map{"status_counts": buckets})
}

func statusBuckets(db *gorm.DB, query donorListQuery) (map[string]int64, error) {
	type bucket struct {
		Status string
		Cnt    int64
	}
	var rows []bucket
	q := query.filter(false).Apply(db.Model(&model.Donor{}))
	if err := q.Select("donor_payment_status AS status, COUNT(*) AS cnt").
		Group("donor_payment_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, b := range rows {
		out[b.Status] = b.Cnt
	}
	return out, nil
}

/* =========================
   Detail (GET /donors/:id)
========================= */

func (ctrl *DonorController) GetByID(c *fiber.Ctx) error {
	donorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid donor id")
	}

	var donor model.Donor
	if err := ctrl.DB.WithContext(c.Context()).
		First(&donor, "donor_id = ?", donorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "donor not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	var pledges []pledgeModel.Pledge
	if err := ctrl.DB.WithContext(c.Context()).
		Where("pledge_donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&pledges).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	payments, err := paymentService.ListForDonor(ctrl.DB.WithContext(c.Context()), &donor)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	reference, err := pledgeService.DonorReference(ctrl.DB.WithContext(c.Context()), donorID, donor.DonorSeq)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	return helper.JsonOK(c, "", fiber.Map{
		"donor":            donor,
		"pledges":          pledges,
		"payments":         payments,
		"reference_number": reference,
	})
}

/* =========================
   Create / Update
========================= */

func (ctrl *DonorController) Create(c *fiber.Ctx) error {
	var body dto.CreateDonorRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	donor := model.Donor{
		DonorName:        body.Name,
		DonorPhone:       body.Phone,
		DonorEmail:       body.Email,
		DonorCity:        body.City,
		DonorBaptismName: body.BaptismName,
		DonorAdminNotes:  body.AdminNotes,
	}
	if body.PreferredLanguage != "" {
		donor.DonorPreferredLanguage = body.PreferredLanguage
	}
	donor.DonorPreferredPaymentMethod = body.PreferredPaymentMethod
	if body.Source != "" {
		donor.DonorSource = body.Source
	}
	if body.SmsOptIn != nil {
		donor.DonorSmsOptIn = *body.SmsOptIn
	} else {
		donor.DonorSmsOptIn = true
	}
	if body.ChurchID != nil {
		if id, err := uuid.Parse(*body.ChurchID); err == nil {
			donor.DonorChurchID = &id
		}
	}
	if body.RepresentativeID != nil {
		if id, err := uuid.Parse(*body.RepresentativeID); err == nil {
			donor.DonorRepresentativeID = &id
		}
	}
	if userID, err := helper.GetUserIDFromToken(c); err == nil {
		donor.DonorAgentID = &userID
	}

	if err := ctrl.DB.WithContext(c.Context()).Create(&donor).Error; err != nil {
		if dbutil.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "a donor with this phone already exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save donor")
	}
	return helper.JsonCreated(c, "donor created", donor)
}

func (ctrl *DonorController) Update(c *fiber.Ctx) error {
	donorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid donor id")
	}

	var body dto.UpdateDonorRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var donor model.Donor
	if err := ctrl.DB.WithContext(c.Context()).
		First(&donor, "donor_id = ?", donorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "donor not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	if body.Name != nil {
		donor.DonorName = *body.Name
	}
	if body.Phone != nil {
		donor.DonorPhone = *body.Phone
	}
	if body.Email != nil {
		donor.DonorEmail = *body.Email
	}
	if body.City != nil {
		donor.DonorCity = *body.City
	}
	if body.BaptismName != nil {
		donor.DonorBaptismName = *body.BaptismName
	}
	if body.PreferredLanguage != nil {
		donor.DonorPreferredLanguage = *body.PreferredLanguage
	}
	if body.PreferredPaymentMethod != nil {
		donor.DonorPreferredPaymentMethod = *body.PreferredPaymentMethod
	}
	if body.SmsOptIn != nil {
		donor.DonorSmsOptIn = *body.SmsOptIn
	}
	if body.FlaggedForFollowup != nil {
		donor.DonorFlaggedForFollowup = *body.FlaggedForFollowup
	}
	if body.AdminNotes != nil {
		donor.DonorAdminNotes = *body.AdminNotes
	}
	if body.ChurchID != nil {
		if id, err := uuid.Parse(*body.ChurchID); err == nil {
			donor.DonorChurchID = &id
		}
	}
	if body.RepresentativeID != nil {
		if id, err := uuid.Parse(*body.RepresentativeID); err == nil {
			donor.DonorRepresentativeID = &id
		}
	}

	if err := ctrl.DB.WithContext(c.Context()).Save(&donor).Error; err != nil {
		if dbutil.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "a donor with this phone already exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update donor")
	}
	return helper.JsonUpdated(c, "donor updated", donor)
}

/* =========================
   Financials
========================= */

// RecalculateFinancials reruns the reconciliation engine from ledger rows.
func (ctrl *DonorController) RecalculateFinancials(c *fiber.Ctx) error {
	donorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid donor id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	snapshot, rerr := reconService.Reconcile(ctrl.DB.WithContext(c.Context()),
		&userID, donorID, reconService.ModeRecalculate, nil)
	if rerr != nil {
		return helper.JsonAppError(c, rerr)
	}
	return helper.JsonUpdated(c, "financials recalculated", snapshot)
}

// UpdateFinancials applies a manual override through the engine so the
// audit trail and balance clamp still hold.
func (ctrl *DonorController) UpdateFinancials(c *fiber.Ctx) error {
	donorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid donor id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.UpdateFinancialsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	snapshot, rerr := reconService.Reconcile(ctrl.DB.WithContext(c.Context()),
		&userID, donorID, reconService.ModeManual, &reconService.ManualValues{
			TotalPledged: body.TotalPledged,
			TotalPaid:    body.TotalPaid,
			Balance:      body.Balance,
			AutoStatus:   body.AutoStatus,
		})
	if rerr != nil {
		return helper.JsonAppError(c, rerr)
	}
	return helper.JsonUpdated(c, "financials updated", snapshot)
}

/* =========================
   Delete (guarded)
========================= */

// Delete refuses to remove a donor with any pledge or payment history; the
// check runs before any DELETE is issued.
func (ctrl *DonorController) Delete(c *fiber.Ctx) error {
	donorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid donor id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	terr := ctrl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var donor model.Donor
		if err := dbutil.LockForUpdate(tx).
			First(&donor, "donor_id = ?", donorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "donor not found")
			}
			return err
		}

		var pledgeCount int64
		if err := tx.Model(&pledgeModel.Pledge{}).
			Where("pledge_donor_id = ?", donorID).
			Count(&pledgeCount).Error; err != nil {
			return err
		}
		var paymentCount int64
		if err := tx.Model(&paymentModel.PledgePayment{}).
			Where("pledge_payment_donor_id = ?", donorID).
			Count(&paymentCount).Error; err != nil {
			return err
		}
		var instantCount int64
		if err := tx.Model(&paymentModel.InstantPayment{}).
			Where("payment_donor_phone = ?", donor.DonorPhone).
			Count(&instantCount).Error; err != nil {
			return err
		}

		if pledgeCount > 0 || paymentCount > 0 || instantCount > 0 {
			return fiber.NewError(fiber.StatusConflict,
				"donor has pledges or payments and cannot be deleted")
		}

		if err := tx.Delete(&donor).Error; err != nil {
			return err
		}
		return recordDonorDelete(tx, &userID, &donor)
	})
	if terr != nil {
		var fe *fiber.Error
		if errors.As(terr, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return helper.JsonDeleted(c, "donor deleted", fiber.Map{"donor_id": donorID})
}

func recordDonorDelete(tx *gorm.DB, userID *uuid.UUID, donor *model.Donor) error {
	return auditService.Record(tx, userID, "donor", donor.DonorID.String(),
		"delete", donor, nil, "admin")
}
