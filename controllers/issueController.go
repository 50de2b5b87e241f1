package controllers

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"civic-reporter-api/models"
	"civic-reporter-api/store"
	"civic-reporter-api/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// IssueController is the boundary surface over issue creation, listing,
// lookup and status transitions.
type IssueController struct {
	Issues store.IssueStore
	Status models.StatusPolicy

	// UploadDir is where multipart image files land; issues store the
	// relative path under it.
	UploadDir string
}

func NewIssueController(issues store.IssueStore, status models.StatusPolicy, uploadDir string) *IssueController {
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	return &IssueController{Issues: issues, Status: status, UploadDir: uploadDir}
}

// ownerFromContext returns the authenticated caller's ID, or nil when the
// request is anonymous. The owner is set only here, at creation time.
func ownerFromContext(c *gin.Context) *primitive.ObjectID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	objID, err := primitive.ObjectIDFromHex(userIDVal.(string))
	if err != nil {
		return nil
	}
	return &objID
}

// Create handles the creation of a new issue from a multipart form (with
// an optional image file) or a JSON body. Owner, status and creation time
// are never taken from the payload.
func (ic *IssueController) Create(c *gin.Context) {
	var (
		title, category, description, address string
		latitude, longitude                   float64
		image                                 string
	)

	if c.ContentType() == "multipart/form-data" {
		title = c.PostForm("title")
		category = c.PostForm("category")
		description = c.PostForm("description")
		address = c.PostForm("address")

		latStr := c.PostForm("latitude")
		lngStr := c.PostForm("longitude")
		if latStr == "" || lngStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
			return
		}
		var err error
		latitude, err = strconv.ParseFloat(latStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid latitude"})
			return
		}
		longitude, err = strconv.ParseFloat(lngStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid longitude"})
			return
		}

		if file, err := c.FormFile("image"); err == nil {
			filename := primitive.NewObjectID().Hex() + filepath.Ext(file.Filename)
			if err := c.SaveUploadedFile(file, filepath.Join(ic.UploadDir, filename)); err != nil {
				utils.Log.Error("Error saving uploaded image", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
				return
			}
			image = "uploads/" + filename
		}
	} else {
		var input struct {
			Title       string   `json:"title" binding:"max=500"`
			Category    string   `json:"category" binding:"max=100"`
			Description string   `json:"description"`
			Latitude    *float64 `json:"latitude" binding:"required"`
			Longitude   *float64 `json:"longitude" binding:"required"`
			Address     string   `json:"address" binding:"max=200"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		title = input.Title
		category = input.Category
		description = input.Description
		address = input.Address
		latitude = *input.Latitude
		longitude = *input.Longitude
	}

	if err := models.ValidateCoordinates(latitude, longitude); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue := models.Issue{
		CreatedBy:   ownerFromContext(c),
		Title:       title,
		Category:    category,
		Description: description,
		Image:       image,
		Latitude:    models.RoundCoordinate(latitude),
		Longitude:   models.RoundCoordinate(longitude),
		Address:     address,
		Status:      models.StatusSubmitted,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ic.Issues.Insert(ctx, &issue); err != nil {
		utils.Log.Error("Error inserting issue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// List returns all issues matching the query filters: category and status
// exact-match, search as a case-insensitive substring over title,
// description and address, ordered by creation time (newest first unless
// ordering=created_at). Admin only; routing enforces the gate.
func (ic *IssueController) List(c *gin.Context) {
	filter := store.ListFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Ordering: c.DefaultQuery("ordering", store.OrderNewest),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := ic.Issues.Find(ctx, filter)
	if err != nil {
		utils.Log.Error("Error listing issues", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issues": issues,
		"total":  len(issues),
	})
}

// Mine returns the issues owned by the authenticated caller.
func (ic *IssueController) Mine(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := ic.Issues.Find(ctx, store.ListFilter{Owner: owner})
	if err != nil {
		utils.Log.Error("Error listing own issues", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issues": issues,
		"total":  len(issues),
	})
}

// Community returns every issue, newest first, for any authenticated
// caller.
func (ic *IssueController) Community(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := ic.Issues.Find(ctx, store.ListFilter{})
	if err != nil {
		utils.Log.Error("Error listing community issues", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issues": issues,
		"total":  len(issues),
	})
}

// Get retrieves an issue by its ID.
func (ic *IssueController) Get(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.Issues.FindByID(ctx, issueID)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			utils.Log.Error("Error retrieving issue", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	c.JSON(http.StatusOK, issue)
}

// SetStatus applies a status transition. Admin only; routing enforces the
// gate. Concurrent transitions on the same issue are last-write-wins.
func (ic *IssueController) SetStatus(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status field is required"})
		return
	}

	if input.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status field is required"})
		return
	}
	if err := ic.Status.Validate(input.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.Issues.UpdateStatus(ctx, issueID, input.Status)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			utils.Log.Error("Error updating issue status", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     issue.ID,
		"title":  issue.Title,
		"status": issue.Status,
	})
}

// SearchByAddress returns issues whose address contains the query as a
// case-insensitive substring. An empty query matches everything. This is
// textual search, not geospatial.
func (ic *IssueController) SearchByAddress(c *gin.Context) {
	query := c.Query("q")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := ic.Issues.FindByAddress(ctx, query)
	if err != nil {
		utils.Log.Error("Error searching issues by address", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issues": issues,
		"total":  len(issues),
	})
}
