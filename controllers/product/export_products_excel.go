package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

// BuildProductsWorkbook writes products to a one-sheet workbook in the
// layout ImportProducts reads.
func BuildProductsWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range sheetHeaders {
		headerRow.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetFloat(p.Price)
		row.AddCell().SetString(p.Unit)
		row.AddCell().SetString(p.Category)
		row.AddCell().SetString(p.Image)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetInt(p.Inventory)
		if p.Organic {
			row.AddCell().SetString("yes")
		} else {
			row.AddCell().SetString("no")
		}
		row.AddCell().SetFloat(p.Discount)
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

// GET /farmer/products/export
func ExportProductsToExcel(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmer, ok := currentFarmer(c)
		if !ok {
			return
		}

		products, err := FarmerProducts(c.Request.Context(), env.DB, farmer.ID)
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to fetch products", err)
			return
		}
		file, err := BuildProductsWorkbook(products)
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to create Excel sheet", err)
			return
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			env.Log.Error("write excel export", zap.String("farmer_id", farmer.ID), zap.Error(err))
		}
	}
}
