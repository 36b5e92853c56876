package expense

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"isletme-backend/internal/auth"
	"isletme-backend/internal/config"
	"isletme-backend/internal/database"
	"isletme-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxImageSize = 10 << 20 // 10MB

type ExpenseImageResponse struct {
	ID         uint   `json:"id"`
	ExpenseID  uint   `json:"expense_id"`
	FileName   string `json:"file_name"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mime_type"`
	UploadedAt string `json:"uploaded_at"`
}

func imageToResponse(img models.ExpenseImage) ExpenseImageResponse {
	return ExpenseImageResponse{
		ID:         img.ID,
		ExpenseID:  img.ExpenseID,
		FileName:   img.FileName,
		Size:       img.Size,
		MimeType:   img.MimeType,
		UploadedAt: img.UploadedAt.Format("2006-01-02 15:04:05"),
	}
}

// Gider kaydını bulup birim yetkisini kontrol eder.
func loadScopedExpense(c *fiber.Ctx, expenseID string) (*models.Expense, error) {
	userID, _, _, err := auth.CurrentUser(c)
	if err != nil {
		return nil, err
	}

	var exp models.Expense
	if err := database.DB.Where("id = ? AND active = ?", expenseID, true).First(&exp).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Gider bulunamadı")
	}

	if err := auth.AuthorizeUnitAccess(database.DB, userID, auth.IsSuperAdmin(c), exp.UnitID); err != nil {
		return nil, err
	}
	return &exp, nil
}

// POST /api/expenses/:id/images (multipart, "images" alanında bir veya
// daha fazla dosya; her biri en fazla 10MB ve image/* olmalı)
func UploadExpenseImagesHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		exp, err := loadScopedExpense(c, c.Params("id"))
		if err != nil {
			return err
		}

		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}

		files := form.File["images"]
		if len(files) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir dosya gerekli")
		}

		// Önce hepsini doğrula, sonra kaydet
		for _, fh := range files {
			if fh.Size > maxImageSize {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Dosya 10MB'dan büyük olamaz: %s", fh.Filename))
			}
			mime := fh.Header.Get("Content-Type")
			if !strings.HasPrefix(mime, "image/") {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Sadece görsel dosyalar yüklenebilir: %s", fh.Filename))
			}
		}

		if err := os.MkdirAll(cfg.ExpenseImagePath, 0755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Klasör oluşturulamadı")
		}

		created := make([]ExpenseImageResponse, 0, len(files))
		for _, fh := range files {
			ext := filepath.Ext(fh.Filename)
			storedName := uuid.NewString() + ext
			storedPath := filepath.Join(cfg.ExpenseImagePath, storedName)

			if err := c.SaveFile(fh, storedPath); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Dosya kaydedilemedi")
			}

			img := models.ExpenseImage{
				ExpenseID:  exp.ID,
				FileName:   fh.Filename,
				StoredPath: storedPath,
				Size:       fh.Size,
				MimeType:   fh.Header.Get("Content-Type"),
				UploadedAt: time.Now(),
				Active:     true,
			}
			if err := database.DB.Create(&img).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Dosya bilgisi kaydedilemedi")
			}
			created = append(created, imageToResponse(img))
		}

		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// GET /api/expenses/:id/images
func ListExpenseImagesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		exp, err := loadScopedExpense(c, c.Params("id"))
		if err != nil {
			return err
		}

		var images []models.ExpenseImage
		if err := database.DB.
			Where("expense_id = ? AND active = ?", exp.ID, true).
			Order("uploaded_at asc").
			Find(&images).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Görseller listelenemedi")
		}

		resp := make([]ExpenseImageResponse, 0, len(images))
		for _, img := range images {
			resp = append(resp, imageToResponse(img))
		}
		return c.JSON(resp)
	}
}

// GET /api/expense-images/:id/file
func DownloadExpenseImageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var img models.ExpenseImage
		if err := database.DB.Where("id = ? AND active = ?", id, true).First(&img).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Görsel bulunamadı")
		}

		if _, err := loadScopedExpense(c, fmt.Sprint(img.ExpenseID)); err != nil {
			return err
		}

		return c.SendFile(img.StoredPath)
	}
}

// DELETE /api/expense-images/:id (soft-delete, dosya diskte kalır)
func DeleteExpenseImageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var img models.ExpenseImage
		if err := database.DB.Where("id = ? AND active = ?", id, true).First(&img).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Görsel bulunamadı")
		}

		if _, err := loadScopedExpense(c, fmt.Sprint(img.ExpenseID)); err != nil {
			return err
		}

		img.Active = false
		if err := database.DB.Save(&img).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Görsel silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
