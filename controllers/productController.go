package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krishisathi/agrisetu-api/initializers"
	"github.com/krishisathi/agrisetu-api/models"
)

func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

// GetProducts returns the whole catalog. Public.
func GetProducts(ctx *gin.Context) {
	var products []models.Product
	if result := initializers.DB.Order("created_at DESC").Find(&products); result.Error != nil {
		initializers.Log.Errorw("Failed to fetch products", "error", result.Error)
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}
	ctx.JSON(http.StatusOK, products)
}

// GetProduct returns one product by id. Public.
func GetProduct(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch product", err)
		}
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// CreateProduct adds a catalog entry. Admin only.
func CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := initializers.DB.Create(&product).Error; err != nil {
		initializers.Log.Errorw("Product creation failed", "error", err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

// DeleteProduct removes a catalog entry. Admin only.
func DeleteProduct(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	if result := initializers.DB.Delete(&models.Product{}, productID); result.Error != nil {
		initializers.Log.Errorw("Product deletion failed", "productId", productID, "error", result.Error)
		respondWithError(ctx, http.StatusInternalServerError, "Delete failed", result.Error)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	return manager.NewUploader(s3.NewFromConfig(cfg)), nil
}

// UploadProductImage stores a product image on S3 and saves its URL on the
// product. Admin only.
func UploadProductImage(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No file uploaded", err)
		return
	}

	productIDStr := ctx.PostForm("productId")
	productID, err := strconv.Atoi(productIDStr)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid productId", err)
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate product", err)
		}
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to configure AWS", err)
		return
	}

	f, err := file.Open()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to read uploaded file", err)
		return
	}
	defer f.Close()

	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		bucket = "agrisetu"
	}
	key := fmt.Sprintf("products/%d-%s%s", productID, uuid.NewString(), filepath.Ext(file.Filename))

	result, err := uploader.Upload(ctx.Request.Context(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ACL:         "public-read",
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		initializers.Log.Errorw("Image upload failed", "productId", productID, "error", err)
		respondWithError(ctx, http.StatusInternalServerError, "Image upload failed", err)
		return
	}

	if err := initializers.DB.Model(&product).Update("image_url", result.Location).Error; err != nil {
		initializers.Log.Errorw("Image URL not saved", "productId", productID, "url", result.Location, "error", err)
		respondWithError(ctx, http.StatusInternalServerError, "Image uploaded but not saved", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Image uploaded", "imageUrl": result.Location})
}

// SeedProducts replaces the catalog with a demo agri catalog for local
// development.
func SeedProducts(ctx *gin.Context) {
	demoProducts := []models.Product{
		{
			Name:         "Urea 46% Nitrogen Fertilizer (50kg)",
			Description:  "High-quality nitrogen fertilizer for optimal crop growth. Ideal for paddy, wheat, and vegetables.",
			MainCategory: "Fertilizers",
			SubCategory:  "Nitrogen",
			Price:        580,
			Stock:        150,
			Unit:         "kg",
			ImageURL:     "/products/urea_fertilizer.png",
		},
		{
			Name:         "DAP Fertilizer - Di-Ammonium Phosphate (50kg)",
			Description:  "Premium DAP fertilizer rich in phosphorus and nitrogen. Perfect for root development and early plant growth.",
			MainCategory: "Fertilizers",
			SubCategory:  "Phosphate",
			Price:        1350,
			Stock:        120,
			Unit:         "kg",
			ImageURL:     "/products/dap_fertilizer.png",
		},
		{
			Name:         "Organic Compost Fertilizer (25kg)",
			Description:  "100% organic compost enriched with beneficial microorganisms. Improves soil structure and water retention.",
			MainCategory: "Organic Products",
			SubCategory:  "Compost",
			Price:        450,
			Stock:        80,
			Unit:         "kg",
			ImageURL:     "/products/organic_compost.png",
		},
		{
			Name:         "Premium Wheat Seeds - HD 2967 (5kg)",
			Description:  "High-yielding wheat variety suitable for irrigated conditions. Disease-resistant with excellent grain quality.",
			MainCategory: "Seeds",
			SubCategory:  "Cereals",
			Price:        420,
			Stock:        60,
			Unit:         "packet",
			ImageURL:     "/products/wheat_seeds.png",
		},
		{
			Name:         "Pure Neem Oil - Natural Pesticide (500ml)",
			Description:  "100% pure neem oil for organic pest management. Controls aphids, whiteflies, and mites.",
			MainCategory: "Pesticides",
			SubCategory:  "Organic",
			Price:        250,
			Stock:        95,
			Unit:         "ml",
			ImageURL:     "/products/neem_oil.png",
		},
		{
			Name:         "Manual Agriculture Sprayer Pump (16L)",
			Description:  "High-capacity manual sprayer with adjustable nozzle. Durable tank with comfortable shoulder strap.",
			MainCategory: "Tools",
			SubCategory:  "Sprayers",
			Price:        1150,
			Stock:        35,
			Unit:         "piece",
			ImageURL:     "/products/sprayer_pump.png",
		},
		{
			Name:         "Drip Irrigation Kit - Complete Set",
			Description:  "Complete drip irrigation system for 1-acre coverage. Water-saving technology with adjustable drippers.",
			MainCategory: "Tools",
			SubCategory:  "Irrigation",
			Price:        2850,
			Stock:        25,
			Unit:         "set",
			ImageURL:     "/products/drip_irrigation.png",
		},
		{
			Name:         "Digital Soil pH Meter with LCD",
			Description:  "Professional soil testing device with accurate pH measurement. Battery-operated with durable probe.",
			MainCategory: "Accessories",
			SubCategory:  "Testing",
			Price:        680,
			Stock:        50,
			Unit:         "piece",
			ImageURL:     "/products/soil_tester.png",
		},
	}

	if err := initializers.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{}).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Seeding failed", err)
		return
	}
	if err := initializers.DB.Create(&demoProducts).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Seeding failed", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Demo product catalog seeded successfully",
		"count":   len(demoProducts),
	})
}
