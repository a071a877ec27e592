package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/app"
	"github.com/junaidrashid-git/farmfresh-api/storage"
)

const maxImageSize = 5 << 20

// UpdateProduct replaces the editable fields of one of the caller's products.
// PUT /farmer/products/:id
func UpdateProduct(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmer, ok := currentFarmer(c)
		if !ok {
			return
		}
		input, ok := bindProduct(c)
		if !ok {
			return
		}

		product, err := UpdateFarmerProduct(c.Request.Context(), env.DB, farmer, c.Param("id"), input)
		if err != nil {
			writeError(c, env, "Failed to update product", err)
			return
		}

		productChanged(c, env, ProductChange{Action: "updated", ProductID: product.ID, FarmerID: farmer.ID, Product: product})
		c.JSON(http.StatusOK, product)
	}
}

// UploadProductImage stores the multipart "image" file and sets it as the
// product image.
// POST /farmer/products/:id/image
func UploadProductImage(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmer, ok := currentFarmer(c)
		if !ok {
			return
		}
		if env.Images == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image uploads are not configured"})
			return
		}

		// 1️⃣ Ownership before touching storage
		if _, err := OwnedProduct(c.Request.Context(), env.DB, farmer, c.Param("id")); err != nil {
			writeError(c, env, "Failed to load product", err)
			return
		}

		// 2️⃣ Read the upload
		header, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image is required"})
			return
		}
		if header.Size > maxImageSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image must be 5MB or smaller"})
			return
		}
		file, err := header.Open()
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to read image", err)
			return
		}
		defer file.Close()

		// 3️⃣ Store it and point the product at it
		url, err := env.Images.Save(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		if errors.Is(err, storage.ErrUnsupportedImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			env.Fail(c, http.StatusInternalServerError, "Failed to save image", err)
			return
		}

		product, err := SetProductImage(c.Request.Context(), env.DB, farmer, c.Param("id"), url)
		if err != nil {
			writeError(c, env, "Failed to update product image", err)
			return
		}

		productChanged(c, env, ProductChange{Action: "updated", ProductID: product.ID, FarmerID: farmer.ID, Product: product})
		c.JSON(http.StatusOK, product)
	}
}
