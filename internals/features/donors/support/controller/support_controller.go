// 📁 controller/support_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tesfa_backend/internals/features/donors/support/dto"
	"tesfa_backend/internals/features/donors/support/model"
	helper "tesfa_backend/internals/helpers"
	"tesfa_backend/internals/helpers/filterq"
)

type SupportController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewSupportController(db *gorm.DB) *SupportController {
	return &SupportController{DB: db, Validator: validator.New()}
}

/* =========================
   List (GET /support)
========================= */

func (ctrl *SupportController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 200)

	f := filterq.New().
		Eq("request_status", c.Query("status")).
		Eq("request_category", c.Query("category")).
		Eq("request_priority", c.Query("priority")).
		DateFrom("created_at", c.Query("date_from")).
		DateTo("created_at", c.Query("date_to")).
		Search(c.Query("q"), "request_subject", "request_message")
	if v := c.Query("assigned_to"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.EqID("request_assigned_to", id)
		}
	}

	base := ctrl.DB.WithContext(c.Context()).Model(&model.SupportRequest{})

	var total int64
	if err := f.Apply(base.Session(&gorm.Session{})).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	var rows []model.SupportRequest
	if err := f.Apply(base.Session(&gorm.Session{})).
		Order("created_at DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	type bucket struct {
		Status string
		Cnt    int64
	}
	var buckets []bucket
	if err := ctrl.DB.WithContext(c.Context()).
		Model(&model.SupportRequest{}).
		Select("request_status AS status, COUNT(*) AS cnt").
		Group("request_status").
		Scan(&buckets).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[b.Status] = b.Cnt
	}

	return helper.JsonListEx(c, "", rows,
		helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage),
		fiber.Map{"status_counts": counts})
}

/* =========================
   Detail (GET /support/:id)
========================= */

func (ctrl *SupportController) GetByID(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var req model.SupportRequest
	if err := ctrl.DB.WithContext(c.Context()).
		First(&req, "request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "support request not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	var replies []model.SupportReply
	if err := ctrl.DB.WithContext(c.Context()).
		Where("reply_request_id = ?", requestID).
		Order("created_at ASC").
		Find(&replies).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return helper.JsonOK(c, "", fiber.Map{
		"request": req,
		"replies": replies,
	})
}

/* =========================
   Create
========================= */

func (ctrl *SupportController) Create(c *fiber.Ctx) error {
	var body dto.CreateSupportRequestRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	donorID, _ := uuid.Parse(body.DonorID)
	req := model.SupportRequest{
		RequestDonorID: donorID,
		RequestSubject: body.Subject,
		RequestMessage: body.Message,
	}
	if body.Category != "" {
		req.RequestCategory = body.Category
	}
	if body.Priority != "" {
		req.RequestPriority = body.Priority
	}

	if err := ctrl.DB.WithContext(c.Context()).Create(&req).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save support request")
	}
	return helper.JsonCreated(c, "support request created", req)
}

/* =========================
   Update (status/assign/notes)
========================= */

func (ctrl *SupportController) Update(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.UpdateSupportRequestRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var req model.SupportRequest
	if err := ctrl.DB.WithContext(c.Context()).
		First(&req, "request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "support request not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	if body.Status != nil {
		req.RequestStatus = *body.Status
		// resolving or closing stamps who/when
		if *body.Status == model.RequestStatusResolved || *body.Status == model.RequestStatusClosed {
			now := time.Now()
			req.RequestResolvedAt = &now
			req.RequestResolvedBy = &userID
		} else {
			req.RequestResolvedAt = nil
			req.RequestResolvedBy = nil
		}
	}
	if body.Priority != nil {
		req.RequestPriority = *body.Priority
	}
	if body.AssignedTo != nil {
		if id, err := uuid.Parse(*body.AssignedTo); err == nil {
			req.RequestAssignedTo = &id
		}
	}
	if body.AdminNotes != nil {
		req.RequestAdminNotes = *body.AdminNotes
	}

	if err := ctrl.DB.WithContext(c.Context()).Save(&req).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update support request")
	}
	return helper.JsonUpdated(c, "support request updated", req)
}

/* =========================
   Reply
========================= */

// Reply appends a staff reply. The first staff reply on an open ticket
// auto-transitions it to in_progress, in the same transaction as the reply.
func (ctrl *SupportController) Reply(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request id")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var body dto.CreateReplyRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var reply model.SupportReply
	terr := ctrl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var req model.SupportRequest
		if err := tx.First(&req, "request_id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "support request not found")
			}
			return err
		}

		reply = model.SupportReply{
			ReplyRequestID:  requestID,
			ReplyUserID:     &userID,
			ReplyMessage:    body.Message,
			ReplyIsInternal: body.IsInternal,
		}
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}

		if req.RequestStatus == model.RequestStatusOpen {
			req.RequestStatus = model.RequestStatusInProgress
			if err := tx.Save(&req).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if terr != nil {
		var fe *fiber.Error
		if errors.As(terr, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return helper.JsonCreated(c, "reply added", reply)
}
