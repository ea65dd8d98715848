package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"Medivue/errs"
)

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	RespondError(c, err)
	return recorder
}

func TestRespondError_StatusMapping(t *testing.T) {
	if got := respond(errs.Validation("no dates selected")).Code; got != http.StatusBadRequest {
		t.Errorf("validation should map to 400, got %d", got)
	}
	if got := respond(errs.NotFound("assignment not found")).Code; got != http.StatusNotFound {
		t.Errorf("not-found should map to 404, got %d", got)
	}
	if got := respond(errs.Conflict(errs.ConflictSlotOccupied, "")).Code; got != http.StatusConflict {
		t.Errorf("conflict should map to 409, got %d", got)
	}
}

func TestRespondError_ContextErrorsAreNotServerFaults(t *testing.T) {
	if got := respond(context.Canceled).Code; got != http.StatusRequestTimeout {
		t.Errorf("cancellation should map to 408, got %d", got)
	}
	if got := respond(context.DeadlineExceeded).Code; got != http.StatusRequestTimeout {
		t.Errorf("deadline expiry should map to 408, got %d", got)
	}
	if got := respond(errors.New("boom")).Code; got != http.StatusInternalServerError {
		t.Errorf("unknown errors should stay 500, got %d", got)
	}
}

func TestRespondError_ConflictCausesStayDistinct(t *testing.T) {
	occupied := respond(errs.Conflict(errs.ConflictSlotOccupied, "slot 09:00 already holds patient PA"))
	scheduled := respond(errs.Conflict(errs.ConflictPatientScheduled, "patient PA already holds slot 09:00 that day"))

	if !strings.Contains(occupied.Body.String(), errs.ConflictSlotOccupied) {
		t.Errorf("expected slot-occupied message, got %s", occupied.Body.String())
	}
	if !strings.Contains(scheduled.Body.String(), errs.ConflictPatientScheduled) {
		t.Errorf("expected patient-scheduled message, got %s", scheduled.Body.String())
	}
}
