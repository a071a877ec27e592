package productcontroller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// ErrEmptySheet is returned for workbooks without a data row.
var ErrEmptySheet = errors.New("excel file is empty or missing header row")

// Column order shared by export and import.
var sheetHeaders = []string{
	"ID", "Name", "Price", "Unit", "Category", "Image", "Description",
	"Inventory", "Organic", "Discount", "CreatedAt", "UpdatedAt",
}

const (
	colID = iota
	colName
	colPrice
	colUnit
	colCategory
	colImage
	colDescription
	colInventory
	colOrganic
	colDiscount
)

// ImportResult counts what an import did. Errors has one entry per skipped row.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

func (r *ImportResult) skip(row int, reason string) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %s", row, reason))
}

// ImportProducts creates or updates farmer's products from the first sheet.
// Rows with an ID update that product; rows without one create a product.
// Invalid rows and rows naming another farmer's product are skipped.
func ImportProducts(ctx context.Context, db *gorm.DB, farmer *models.Farmer, file *xlsx.File) (ImportResult, error) {
	var result ImportResult
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) < 2 {
		return result, ErrEmptySheet
	}

	for i, row := range file.Sheets[0].Rows {
		if i == 0 || row == nil {
			continue
		}
		rowNum := i + 1

		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}
		if get(colID) == "" && get(colName) == "" {
			continue
		}

		input, err := rowInput(get)
		if err != nil {
			result.skip(rowNum, err.Error())
			continue
		}
		if err := input.Normalize(); err != nil {
			result.skip(rowNum, err.Error())
			continue
		}

		if id := get(colID); id != "" {
			_, err := UpdateFarmerProduct(ctx, db, farmer, id, input)
			switch {
			case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrNotProductOwner):
				result.skip(rowNum, err.Error())
			case err != nil:
				return result, err
			default:
				result.Updated++
			}
			continue
		}

		if _, err := CreateFarmerProduct(ctx, db, farmer, input); err != nil {
			return result, err
		}
		result.Created++
	}
	return result, nil
}

func rowInput(get func(int) string) (ProductInput, error) {
	input := ProductInput{
		Name:        get(colName),
		Unit:        get(colUnit),
		Category:    get(colCategory),
		Image:       get(colImage),
		Description: get(colDescription),
	}

	price, err := strconv.ParseFloat(get(colPrice), 64)
	if err != nil {
		return input, fmt.Errorf("invalid price %q", get(colPrice))
	}
	input.Price = price

	if raw := get(colInventory); raw != "" {
		// Spreadsheets store numbers as floats, so "12" may arrive as "12.0".
		inv, err := strconv.ParseFloat(raw, 64)
		if err != nil || inv != math.Trunc(inv) {
			return input, fmt.Errorf("invalid inventory %q", raw)
		}
		input.Inventory = int(inv)
	}
	if raw := get(colDiscount); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return input, fmt.Errorf("invalid discount %q", raw)
		}
		input.Discount = d
	}
	switch strings.ToLower(get(colOrganic)) {
	case "", "0", "false", "no", "n":
	case "1", "true", "yes", "y":
		input.Organic = true
	default:
		return input, fmt.Errorf("invalid organic flag %q", get(colOrganic))
	}
	return input, nil
}

// POST /farmer/products/import (multipart "file")
func ImportProductsFromExcel(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmer, ok := currentFarmer(c)
		if !ok {
			return
		}

		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}
		file, err := excelFileHeader.Open()
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to open Excel file", err)
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		result, err := ImportProducts(c.Request.Context(), env.DB, farmer, xlFile)
		if errors.Is(err, ErrEmptySheet) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Rows written before a failure stay written.
		if result.Created+result.Updated > 0 {
			productChanged(c, env, ProductChange{Action: "imported", FarmerID: farmer.ID})
		}
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Import stopped before the end of the file", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
