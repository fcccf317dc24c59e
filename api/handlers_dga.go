package api

import (
	"net/http"
	"strings"

	"oversight/models"

	"github.com/gorilla/mux"
)

func (s *Server) listEntities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.EntityFilter{
		Region: q.Get("region"),
		Status: q.Get("status"),
		Sector: q.Get("sector"),
	}
	entities, pagination, err := s.services.Entities.List(r.Context(), filter, pageFromQuery(r))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve entities")
		return
	}
	respondPage(w, "Entities retrieved successfully", "entities", entities, pagination)
}

func (s *Server) getEntity(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve entity")
		return
	}
	detail, err := s.services.Entities.Get(r.Context(), id)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve entity")
		return
	}
	respondOK(w, "Entity retrieved successfully", detail)
}

func (s *Server) createEntity(w http.ResponseWriter, r *http.Request) {
	var entity models.Entity
	if err := decodeJSON(w, r, &entity); err != nil {
		s.errors.respond(w, r, err, "Failed to create entity")
		return
	}
	created, err := s.services.Entities.Create(r.Context(), &entity)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to create entity")
		return
	}
	respondCreated(w, "Entity created successfully", created)
}

func (s *Server) updateEntity(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update entity")
		return
	}
	updates, err := decodeUpdates(w, r)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update entity")
		return
	}
	entity, err := s.services.Entities.Update(r.Context(), id, updates)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update entity")
		return
	}
	respondOK(w, "Entity updated successfully", entity)
}

func (s *Server) deleteEntity(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to delete entity")
		return
	}
	if err := s.services.Entities.Delete(r.Context(), id); err != nil {
		s.errors.respond(w, r, err, "Failed to delete entity")
		return
	}
	respondOK(w, "Entity deleted successfully", nil)
}

func (s *Server) listPrograms(w http.ResponseWriter, r *http.Request) {
	entityID, err := queryUUID(r, "entity_id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve programs")
		return
	}
	filter := models.ProgramFilter{
		EntityID: entityID,
		Status:   r.URL.Query().Get("status"),
		Region:   r.URL.Query().Get("region"),
	}
	programs, pagination, err := s.services.Programs.List(r.Context(), filter, pageFromQuery(r))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve programs")
		return
	}
	respondPage(w, "Programs retrieved successfully", "programs", programs, pagination)
}

func (s *Server) getProgram(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve program")
		return
	}
	detail, err := s.services.Programs.Get(r.Context(), id)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve program")
		return
	}
	respondOK(w, "Program retrieved successfully", detail)
}

func (s *Server) createProgram(w http.ResponseWriter, r *http.Request) {
	var program models.Program
	if err := decodeJSON(w, r, &program); err != nil {
		s.errors.respond(w, r, err, "Failed to create program")
		return
	}
	created, err := s.services.Programs.Create(r.Context(), &program)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to create program")
		return
	}
	respondCreated(w, "Program created successfully", created)
}

func (s *Server) updateProgram(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update program")
		return
	}
	updates, err := decodeUpdates(w, r)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update program")
		return
	}
	program, err := s.services.Programs.Update(r.Context(), id, updates)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update program")
		return
	}
	respondOK(w, "Program updated successfully", program)
}

func (s *Server) deleteProgram(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to delete program")
		return
	}
	if err := s.services.Programs.Delete(r.Context(), id); err != nil {
		s.errors.respond(w, r, err, "Failed to delete program")
		return
	}
	respondOK(w, "Program deleted successfully", nil)
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	programID, err := queryUUID(r, "program_id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve projects")
		return
	}
	filter := models.ProjectFilter{ProgramID: programID, Status: r.URL.Query().Get("status")}
	projects, pagination, err := s.services.Projects.List(r.Context(), filter, pageFromQuery(r))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve projects")
		return
	}
	respondPage(w, "Projects retrieved successfully", "projects", projects, pagination)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve project")
		return
	}
	project, err := s.services.Projects.Get(r.Context(), id)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve project")
		return
	}
	respondOK(w, "Project retrieved successfully", project)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := decodeJSON(w, r, &project); err != nil {
		s.errors.respond(w, r, err, "Failed to create project")
		return
	}
	created, err := s.services.Projects.Create(r.Context(), &project)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to create project")
		return
	}
	respondCreated(w, "Project created successfully", created)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update project")
		return
	}
	updates, err := decodeUpdates(w, r)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update project")
		return
	}
	project, err := s.services.Projects.Update(r.Context(), id, updates)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update project")
		return
	}
	respondOK(w, "Project updated successfully", project)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to delete project")
		return
	}
	if err := s.services.Projects.Delete(r.Context(), id); err != nil {
		s.errors.respond(w, r, err, "Failed to delete project")
		return
	}
	respondOK(w, "Project deleted successfully", nil)
}

func (s *Server) budgetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.services.Budget.Overview(r.Context())
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve budget overview")
		return
	}
	respondOK(w, "Budget overview retrieved successfully", overview)
}

func (s *Server) entityBudget(w http.ResponseWriter, r *http.Request) {
	entityID, err := pathUUID(r, "entityId")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve entity budget")
		return
	}
	budget, err := s.services.Budget.ForEntity(r.Context(), entityID)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve entity budget")
		return
	}
	respondOK(w, "Entity budget retrieved successfully", budget)
}

func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	var budget models.Budget
	if err := decodeJSON(w, r, &budget); err != nil {
		s.errors.respond(w, r, err, "Failed to create budget")
		return
	}
	created, err := s.services.Budget.Create(r.Context(), &budget)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to create budget")
		return
	}
	respondCreated(w, "Budget created successfully", created)
}

func (s *Server) updateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update budget")
		return
	}
	updates, err := decodeUpdates(w, r)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update budget")
		return
	}
	budget, err := s.services.Budget.Update(r.Context(), id, updates)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update budget")
		return
	}
	respondOK(w, "Budget updated successfully", budget)
}

func (s *Server) reportingOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.services.Reporting.Overview(r.Context())
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve national overview")
		return
	}
	respondOK(w, "National overview retrieved successfully", overview)
}

func (s *Server) regionReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.services.Reporting.Region(r.Context(), mux.Vars(r)["region"])
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve regional report")
		return
	}
	respondOK(w, "Regional report retrieved successfully", report)
}

func (s *Server) latestKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := s.services.Reporting.LatestKPIs(r.Context())
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve KPIs")
		return
	}
	respondOK(w, "KPIs retrieved successfully", kpis)
}

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	filter := models.TicketFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}
	tickets, pagination, err := s.services.Tickets.List(r.Context(), filter, pageFromQuery(r))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve tickets")
		return
	}
	respondPage(w, "Tickets retrieved successfully", "tickets", tickets, pagination)
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var ticket models.Ticket
	if err := decodeJSON(w, r, &ticket); err != nil {
		s.errors.respond(w, r, err, "Failed to create ticket")
		return
	}
	created, err := s.services.Tickets.Create(r.Context(), &ticket, identityOf(r))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to create ticket")
		return
	}
	respondCreated(w, "Ticket created successfully", created)
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update ticket")
		return
	}
	updates, err := decodeUpdates(w, r)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update ticket")
		return
	}
	ticket, err := s.services.Tickets.Update(r.Context(), id, updates)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to update ticket")
		return
	}
	respondOK(w, "Ticket updated successfully", ticket)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, pagination, err := s.services.Users.List(r.Context(), pageFromQuery(r))
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve users")
		return
	}
	respondPage(w, "Users retrieved successfully", "users", users, pagination)
}

// trimmed returns the query value without surrounding whitespace
func trimmed(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}
