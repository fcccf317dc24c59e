package api

import (
	"fmt"
	"net/http"

	"oversight/models"
	"oversight/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (s *Server) budgetTrends(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to retrieve budget trends"

	var filter models.BudgetTrendFilter
	var err error
	if filter.Start, err = queryDate(r, "start_date", "startDate"); err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	if filter.End, err = queryDate(r, "end_date", "endDate"); err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	if filter.EntityID, err = queryUUID(r, "entity_id"); err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	filter.Region = trimmed(r, "region")

	trends, err := s.services.Analytics.BudgetTrends(r.Context(), filter)
	if err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	respondOK(w, "Budget trends retrieved successfully", trends)
}

func (s *Server) predictBudget(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to generate budget prediction"

	entityID, err := pathUUID(r, "entity_id")
	if err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	months, err := queryInt(r, "months")
	if err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	prediction, err := s.services.Analytics.PredictBudget(r.Context(), entityID, months)
	if err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	respondOK(w, "Budget prediction generated successfully", prediction)
}

func (s *Server) digitalMaturity(w http.ResponseWriter, r *http.Request) {
	entityID, err := pathUUID(r, "entity_id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve digital maturity")
		return
	}
	result, err := s.services.Analytics.DigitalMaturity(r.Context(), entityID)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve digital maturity")
		return
	}
	respondOK(w, "Digital maturity score retrieved successfully", result)
}

func (s *Server) riskAnalysis(w http.ResponseWriter, r *http.Request) {
	entityID, err := queryUUID(r, "entity_id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to perform risk analysis")
		return
	}
	analysis, err := s.services.Analytics.RiskAnalysis(r.Context(), models.RiskFilter{
		EntityID: entityID,
		Region:   trimmed(r, "region"),
	})
	if err != nil {
		s.errors.respond(w, r, err, "Failed to perform risk analysis")
		return
	}
	respondOK(w, "Risk analysis completed successfully", analysis)
}

func (s *Server) benchmarks(w http.ResponseWriter, r *http.Request) {
	benchmarks, err := s.services.Analytics.Benchmarks(r.Context())
	if err != nil {
		s.errors.respond(w, r, err, "Failed to generate benchmarks")
		return
	}
	respondOK(w, "Benchmarks generated successfully", benchmarks)
}

func (s *Server) complianceReport(w http.ResponseWriter, r *http.Request) {
	entityID, err := queryUUID(r, "entity_id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to generate compliance report")
		return
	}
	report, err := s.services.Compliance.Report(r.Context(), entityID)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to generate compliance report")
		return
	}
	respondOK(w, "Compliance report generated successfully", report)
}

// complianceHistory serves both the national series and the per-entity one
func (s *Server) complianceHistory(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to retrieve compliance history"

	var entityID *uuid.UUID
	if _, ok := mux.Vars(r)["entity_id"]; ok {
		id, err := pathUUID(r, "entity_id")
		if err != nil {
			s.errors.respond(w, r, err, failure)
			return
		}
		entityID = &id
	}
	months, err := queryInt(r, "months")
	if err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	history, err := s.services.Compliance.History(r.Context(), entityID, months)
	if err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	respondOK(w, "Compliance history retrieved successfully", history)
}

func (s *Server) auditReport(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to generate audit report"

	var filter models.AuditFilter
	var err error
	if filter.EntityID, err = queryUUID(r, "entity_id"); err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	if filter.Start, err = queryTime(r, "start_date", "startDate"); err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	if filter.End, err = queryTime(r, "end_date", "endDate"); err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	filter.ActionType = trimmed(r, "action_type")

	report, err := s.services.Compliance.AuditReport(r.Context(), filter)
	if err != nil {
		s.errors.respond(w, r, err, failure)
		return
	}
	respondOK(w, "Audit report generated successfully", report)
}

func (s *Server) initiateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req models.InitiateWorkflowRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errors.respond(w, r, err, "Failed to initiate workflow")
		return
	}
	initiation, err := s.services.Workflows.Initiate(r.Context(), &req, identityOf(r))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to initiate workflow")
		return
	}
	respondCreated(w, "Workflow initiated successfully", initiation)
}

func (s *Server) processApproval(w http.ResponseWriter, r *http.Request) {
	workflowID, err := pathUUID(r, "workflow_id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to process approval")
		return
	}
	var req models.ApprovalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errors.respond(w, r, err, "Failed to process approval")
		return
	}
	result, err := s.services.Workflows.ProcessApproval(r.Context(), workflowID, identityOf(r), &req)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to process approval")
		return
	}
	respondOK(w, fmt.Sprintf("Approval %s processed successfully", req.Action), result)
}

func (s *Server) resubmitWorkflow(w http.ResponseWriter, r *http.Request) {
	workflowID, err := pathUUID(r, "workflow_id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to resubmit workflow")
		return
	}
	var req struct {
		Comments string `json:"comments"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			s.errors.respond(w, r, err, "Failed to resubmit workflow")
			return
		}
	}
	result, err := s.services.Workflows.Resubmit(r.Context(), workflowID, identityOf(r), req.Comments)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to resubmit workflow")
		return
	}
	respondOK(w, "Workflow resubmitted successfully", result)
}

func (s *Server) listWorkflows(w http.ResponseWriter, r *http.Request) {
	filter := models.WorkflowFilter{
		Status:   trimmed(r, "status"),
		ItemType: trimmed(r, "item_type"),
	}
	workflows, pagination, err := s.services.Workflows.List(r.Context(), filter, pageFromQuery(r))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve workflows")
		return
	}
	respondPage(w, "Workflows retrieved successfully", "workflows", workflows, pagination)
}

func (s *Server) getWorkflow(w http.ResponseWriter, r *http.Request) {
	workflowID, err := pathUUID(r, "workflow_id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve workflow")
		return
	}
	detail, err := s.services.Workflows.Get(r.Context(), workflowID)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve workflow")
		return
	}
	respondOK(w, "Workflow retrieved successfully", detail)
}

type autoApproveRequest struct {
	ItemType string                     `json:"item_type"`
	ItemID   string                     `json:"item_id"`
	Criteria models.AutoApproveCriteria `json:"criteria"`
}

func (s *Server) autoApprove(w http.ResponseWriter, r *http.Request) {
	var req autoApproveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errors.respond(w, r, err, "Failed to evaluate auto-approval")
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		s.errors.respond(w, r, service.NewValidationError("item_id", "invalid id %q", req.ItemID), "Failed to evaluate auto-approval")
		return
	}
	result, err := s.services.Workflows.AutoApprove(r.Context(), req.ItemType, itemID, req.Criteria)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to evaluate auto-approval")
		return
	}
	respondOK(w, "Auto-approval evaluated", result)
}

func (s *Server) budgetAlerts(w http.ResponseWriter, r *http.Request) {
	report, err := s.services.Alerts.ScanBudgets(r.Context())
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve budget alerts")
		return
	}
	respondOK(w, "Budget alerts retrieved successfully", report)
}

func (s *Server) scheduleReport(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errors.respond(w, r, err, "Failed to schedule report")
		return
	}
	confirmation, err := s.services.Schedules.Schedule(r.Context(), &req, identityOf(r))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to schedule report")
		return
	}
	respondCreated(w, "Report scheduled successfully", confirmation)
}

func (s *Server) listSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.services.Schedules.List(r.Context(), queryBool(r, "active"))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve schedules")
		return
	}
	respondOK(w, "Schedules retrieved successfully", schedules)
}

func (s *Server) cancelSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to cancel schedule")
		return
	}
	if err := s.services.Schedules.Cancel(r.Context(), id); err != nil {
		s.errors.respond(w, r, err, "Failed to cancel schedule")
		return
	}
	respondOK(w, "Schedule cancelled successfully", nil)
}

func (s *Server) updateStatuses(w http.ResponseWriter, r *http.Request) {
	result, err := s.services.ProgramStatus.UpdateStatuses(r.Context())
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update program statuses")
		return
	}
	respondOK(w, "Program statuses updated successfully", result)
}

func (s *Server) batchOperation(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errors.respond(w, r, err, "Failed to process batch operation")
		return
	}
	result, err := s.services.Batch.Process(r.Context(), &req, identityOf(r))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to process batch operation")
		return
	}
	respondOK(w, "Batch operation completed", result)
}
