package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/repository"
	"schoolfee-backend/internal/service"
)

func (s *Server) handleGenerateBills(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateBillsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := s.billing.GenerateDemandBills(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := s.billing.GetBill(r.Context(), mux.Vars(r)["billNo"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (s *Server) handlePrintBill(w http.ResponseWriter, r *http.Request) {
	bill, err := s.billing.GetBill(r.Context(), mux.Vars(r)["billNo"])
	if err != nil {
		writeError(w, err)
		return
	}
	student, err := s.statements.GetStudentStatement(r.Context(), bill.StudentID, bill.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	rendered, err := s.renderer.RenderBill(bill, &domain.Student{
		StudentID:  student.Student.StudentID,
		Name:       student.Student.Name,
		FatherName: student.Student.FatherName,
		ClassName:  student.Student.ClassName,
		Section:    student.Student.Section,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(rendered)
}

func (s *Server) handleUpdateBillStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.BillStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.billing.UpdateBillStatus(r.Context(), mux.Vars(r)["billNo"], req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteBillBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BillNumbers []string `json:"bill_numbers"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	deleted, err := s.billing.DeleteDemandBillBatch(r.Context(), req.BillNumbers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (s *Server) handleListStudentBills(w http.ResponseWriter, r *http.Request) {
	sessionID, err := queryInt32(r, "session_id")
	if err != nil {
		writeError(w, err)
		return
	}
	bills, err := s.billing.ListStudentBills(r.Context(), mux.Vars(r)["studentID"], sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

func (s *Server) handleCollectFee(w http.ResponseWriter, r *http.Request) {
	var req service.CollectFeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if claims := ClaimsFrom(r.Context()); claims != nil && req.CollectedBy == "" {
		req.CollectedBy = claims.Email
	}
	receipt, err := s.collection.CollectFee(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.collection.GetReceipt(r.Context(), mux.Vars(r)["receiptNo"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handlePrintReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.collection.GetReceipt(r.Context(), mux.Vars(r)["receiptNo"])
	if err != nil {
		writeError(w, err)
		return
	}
	rendered, err := s.renderer.RenderReceipt(receipt)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(rendered)
}

func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	sessionID, err := queryInt32(r, "session_id")
	if err != nil {
		writeError(w, err)
		return
	}
	q := repository.TransactionQuery{
		SessionID:   sessionID,
		StudentID:   r.URL.Query().Get("student_id"),
		StudentName: r.URL.Query().Get("student_name"),
		ClassName:   r.URL.Query().Get("class"),
		Section:     r.URL.Query().Get("section"),
	}
	if from, err := queryDate(r, "date_from"); err != nil {
		writeError(w, err)
		return
	} else {
		q.DateFrom = from
	}
	if to, err := queryDate(r, "date_to"); err != nil {
		writeError(w, err)
		return
	} else {
		q.DateTo = to
	}

	txns, err := s.statements.GetTransactions(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleGetStatement(w http.ResponseWriter, r *http.Request) {
	sessionID, err := queryInt32(r, "session_id")
	if err != nil {
		writeError(w, err)
		return
	}
	stmt, err := s.statements.GetStudentStatement(r.Context(), mux.Vars(r)["studentID"], sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stmt)
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	sessionID, err := queryInt32(r, "session_id")
	if err != nil {
		writeError(w, err)
		return
	}
	dashboard, err := s.statements.GetStudentDashboard(r.Context(), mux.Vars(r)["studentID"], sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleGetFeeBook(w http.ResponseWriter, r *http.Request) {
	sessionID, err := queryInt32(r, "session_id")
	if err != nil {
		writeError(w, err)
		return
	}
	book, err := s.statements.GetYearlyFeeBook(r.Context(), mux.Vars(r)["studentID"], sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleOutstandingReport(w http.ResponseWriter, r *http.Request) {
	sessionID, err := queryInt32(r, "session_id")
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := s.statements.GetOutstandingReport(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGenerationHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, err := queryInt32(r, "session_id")
	if err != nil {
		writeError(w, err)
		return
	}
	history, err := s.statements.GetBillGenerationHistory(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.InvalidInputf("invalid %s, expected YYYY-MM-DD", name)
	}
	return &t, nil
}
