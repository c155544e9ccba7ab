// 📁 controller/church_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tesfa_backend/internals/features/churches/dto"
	"tesfa_backend/internals/features/churches/model"
	helper "tesfa_backend/internals/helpers"
)

type ChurchController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewChurchController(db *gorm.DB) *ChurchController {
	return &ChurchController{DB: db, Validator: validator.New()}
}

func (ctrl *ChurchController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 50, 200)

	q := ctrl.DB.WithContext(c.Context()).Model(&model.Church{})
	if v := c.Query("q"); v != "" {
		q = q.Where("LOWER(church_name) LIKE ?", "%"+v+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	var rows []model.Church
	if err := q.Order("church_name ASC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage))
}

func (ctrl *ChurchController) Create(c *fiber.Ctx) error {
	var body dto.CreateChurchRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	church := model.Church{
		ChurchName:  body.Name,
		ChurchCity:  body.City,
		ChurchPhone: body.Phone,
	}
	if err := ctrl.DB.WithContext(c.Context()).Create(&church).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save church")
	}
	return helper.JsonCreated(c, "church created", church)
}

func (ctrl *ChurchController) Representatives(c *fiber.Ctx) error {
	churchID, err := uuid.Parse(c.Params("church_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid church_id")
	}

	var rows []model.ChurchRepresentative
	if err := ctrl.DB.WithContext(c.Context()).
		Where("representative_church_id = ?", churchID).
		Order("representative_name ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return helper.JsonOK(c, "", rows)
}

func (ctrl *ChurchController) CreateRepresentative(c *fiber.Ctx) error {
	var body dto.CreateRepresentativeRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := ctrl.Validator.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	churchID, _ := uuid.Parse(body.ChurchID)
	var church model.Church
	if err := ctrl.DB.WithContext(c.Context()).
		First(&church, "church_id = ?", churchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "church not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}

	rep := model.ChurchRepresentative{
		RepresentativeChurchID: churchID,
		RepresentativeName:     body.Name,
		RepresentativePhone:    body.Phone,
	}
	if err := ctrl.DB.WithContext(c.Context()).Create(&rep).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to save representative")
	}
	return helper.JsonCreated(c, "representative created", rep)
}
