package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

/* ─── Calculator page ────────────────────────────────────────────────── */

// showCalculator renders the calculator form with the user's metric chart.
// GET /bmi.
func (h *Handler) showCalculator(c *gin.Context) {
	userID := c.GetString("user_id")

	records, err := h.records.listRecordsForUser(c.Request.Context(), userID)
	if err != nil {
		pageError(c, http.StatusInternalServerError, "failed to load records")
		return
	}

	c.HTML(http.StatusOK, "bmi.html", merge(emptyCalculatorForm(c.GetString("username")), chartFields(records)))
}

// emptyCalculatorForm returns the base template data for the calculator page.
// Every key the template dereferences is present so a fresh render and an
// error re-render share one template.
func emptyCalculatorForm(username string) gin.H {
	return gin.H{
		"Username": username,
		"Weight":   "",
		"Height":   "",
		"Gender":   "",
		"Steps":    "",
		"Speed":    "",
		"Errors":   map[string]string{},
	}
}

// submitCalculator runs one of the three calculator actions, selected by the
// name of the submit button: calculate_bmi, calculate_calories, or
// save_record. All three validate the form the same way and echo the inputs
// back; save_record additionally persists a record with freshly computed
// derived values. POST /bmi.
func (h *Handler) submitCalculator(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := c.Request.ParseForm(); err != nil {
		pageError(c, http.StatusBadRequest, "malformed form submission")
		return
	}
	form := c.Request.PostForm

	records, err := h.records.listRecordsForUser(c.Request.Context(), userID)
	if err != nil {
		pageError(c, http.StatusInternalServerError, "failed to load records")
		return
	}

	data := merge(emptyCalculatorForm(c.GetString("username")), gin.H{
		"Weight": form.Get("weight"),
		"Height": form.Get("height"),
		"Gender": form.Get("gender"),
		"Steps":  form.Get("steps"),
		"Speed":  form.Get("speed"),
	}, chartFields(records))

	input, fieldErrs := parseHealthInput(form)
	if len(fieldErrs) > 0 {
		data["Errors"] = fieldErrs
		c.HTML(http.StatusBadRequest, "bmi.html", data)
		return
	}

	switch {
	case form.Has("calculate_bmi"):
		bmi := computeBMI(input.WeightKG, input.HeightCM)
		category := bmiCategory(bmi)
		diet, workout := adviceFor(category)
		data["BMI"] = bmi
		data["Category"] = category
		data["DietAdvice"] = diet
		data["WorkoutAdvice"] = workout

	case form.Has("calculate_calories"):
		data["Calories"] = computeCalories(input.WeightKG, input.Steps, input.SpeedKMH)

	case form.Has("save_record"):
		// Always recompute both derived values when saving.
		bmi := computeBMI(input.WeightKG, input.HeightCM)
		calories := computeCalories(input.WeightKG, input.Steps, input.SpeedKMH)
		rec := healthRecord{
			UserID:   userID,
			Gender:   input.Gender,
			WeightKG: input.WeightKG,
			HeightCM: input.HeightCM,
			BMI:      &bmi,
			Calories: &calories,
			Steps:    input.Steps,
			SpeedKMH: input.SpeedKMH,
		}
		created, err := h.records.createRecord(c.Request.Context(), rec)
		if err != nil {
			log.Printf("[save-record] user %s: %v", userID, err)
			pageError(c, http.StatusInternalServerError, "failed to save record")
			return
		}
		data["BMI"] = bmi
		data["Calories"] = calories
		data["Saved"] = true
		// Saved record belongs at the end of the chart series.
		data = merge(data, chartFields(append(records, created)))

	default:
		pageError(c, http.StatusBadRequest, "unknown calculator action")
		return
	}

	c.HTML(http.StatusOK, "bmi.html", data)
}

/* ─── History page ───────────────────────────────────────────────────── */

// history lists the user's records ascending by creation time, with the same
// chart series as the calculator page. GET /history.
func (h *Handler) history(c *gin.Context) {
	userID := c.GetString("user_id")

	records, err := h.records.listRecordsForUser(c.Request.Context(), userID)
	if err != nil {
		pageError(c, http.StatusInternalServerError, "failed to load records")
		return
	}

	c.HTML(http.StatusOK, "history.html", merge(gin.H{
		"Username": c.GetString("username"),
		"Records":  records,
	}, chartFields(records)))
}

/* ─── Edit / delete ──────────────────────────────────────────────────── */

// recordID parses the :id path param. A malformed id behaves like a missing
// record rather than a distinct error class.
func recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

// showEditRecord renders the edit form prefilled with the record's current
// values. GET /record/:id/edit. 404 for a record the user doesn't own.
func (h *Handler) showEditRecord(c *gin.Context) {
	userID := c.GetString("user_id")
	id, ok := recordID(c)
	if !ok {
		pageError(c, http.StatusNotFound, "record not found")
		return
	}

	rec, err := h.records.getRecordForUser(c.Request.Context(), id, userID)
	if errors.Is(err, errNotFound) {
		pageError(c, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		pageError(c, http.StatusInternalServerError, "failed to load record")
		return
	}

	c.HTML(http.StatusOK, "edit_record.html", gin.H{
		"Record": rec,
		"Errors": map[string]string{},
	})
}

// editRecord validates the submitted inputs, recomputes both derived values
// (any client-sent bmi/calories are ignored), persists, and redirects to the
// history page. POST /record/:id/edit. 404 for a record the user doesn't own.
func (h *Handler) editRecord(c *gin.Context) {
	userID := c.GetString("user_id")
	id, ok := recordID(c)
	if !ok {
		pageError(c, http.StatusNotFound, "record not found")
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		pageError(c, http.StatusBadRequest, "malformed form submission")
		return
	}

	input, fieldErrs := parseHealthInput(c.Request.PostForm)
	if len(fieldErrs) > 0 {
		c.HTML(http.StatusBadRequest, "edit_record.html", gin.H{
			"Errors": fieldErrs,
			"Record": healthRecord{
				ID:       id,
				Gender:   input.Gender,
				WeightKG: input.WeightKG,
				HeightCM: input.HeightCM,
				Steps:    input.Steps,
				SpeedKMH: input.SpeedKMH,
			},
		})
		return
	}

	bmi := computeBMI(input.WeightKG, input.HeightCM)
	calories := computeCalories(input.WeightKG, input.Steps, input.SpeedKMH)
	rec := healthRecord{
		ID:       id,
		UserID:   userID,
		Gender:   input.Gender,
		WeightKG: input.WeightKG,
		HeightCM: input.HeightCM,
		BMI:      &bmi,
		Calories: &calories,
		Steps:    input.Steps,
		SpeedKMH: input.SpeedKMH,
	}

	if _, err := h.records.updateRecord(c.Request.Context(), rec); err != nil {
		if errors.Is(err, errNotFound) {
			pageError(c, http.StatusNotFound, "record not found")
			return
		}
		pageError(c, http.StatusInternalServerError, "failed to update record")
		return
	}

	c.Redirect(http.StatusFound, "/history")
}

// confirmDeleteRecord renders a confirmation prompt before deletion.
// GET /record/:id/delete. 404 for a record the user doesn't own.
func (h *Handler) confirmDeleteRecord(c *gin.Context) {
	userID := c.GetString("user_id")
	id, ok := recordID(c)
	if !ok {
		pageError(c, http.StatusNotFound, "record not found")
		return
	}

	rec, err := h.records.getRecordForUser(c.Request.Context(), id, userID)
	if errors.Is(err, errNotFound) {
		pageError(c, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		pageError(c, http.StatusInternalServerError, "failed to load record")
		return
	}

	c.HTML(http.StatusOK, "delete_confirm.html", gin.H{
		"Record": rec,
	})
}

// deleteRecord removes the record immediately and redirects to the history
// page. POST /record/:id/delete. A nonexistent or foreign id is a 404, never
// a redirect.
func (h *Handler) deleteRecord(c *gin.Context) {
	userID := c.GetString("user_id")
	id, ok := recordID(c)
	if !ok {
		pageError(c, http.StatusNotFound, "record not found")
		return
	}

	err := h.records.deleteRecordForUser(c.Request.Context(), id, userID)
	if errors.Is(err, errNotFound) {
		pageError(c, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		pageError(c, http.StatusInternalServerError, "failed to delete record")
		return
	}

	c.Redirect(http.StatusFound, "/history")
}
