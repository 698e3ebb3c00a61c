package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/service"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Do not leak whether the email or the password was wrong.
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

func (s *Server) handleListFeeTypes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	types, err := s.feeTypes.ListFeeTypes(r.Context(), activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleCreateFeeType(w http.ResponseWriter, r *http.Request) {
	var ft domain.FeeType
	if err := decodeJSON(r, &ft); err != nil {
		writeError(w, err)
		return
	}
	if err := s.feeTypes.CreateFeeType(r.Context(), &ft); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ft)
}

func (s *Server) handleGetFeeType(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	ft, err := s.feeTypes.GetFeeType(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ft)
}

func (s *Server) handleUpdateFeeType(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var ft domain.FeeType
	if err := decodeJSON(r, &ft); err != nil {
		writeError(w, err)
		return
	}
	ft.ID = id
	if err := s.feeTypes.UpdateFeeType(r.Context(), &ft); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ft)
}

func (s *Server) handleDeleteFeeType(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.feeTypes.DeleteFeeType(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListStructures(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathInt32(r, "sessionID")
	if err != nil {
		writeError(w, err)
		return
	}
	structures, err := s.structures.ListStructures(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, structures)
}

func (s *Server) handleGetStructure(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathInt32(r, "sessionID")
	if err != nil {
		writeError(w, err)
		return
	}
	structure, err := s.structures.GetStructure(r.Context(), sessionID, mux.Vars(r)["className"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, structure)
}

func (s *Server) handleUpsertStructureItems(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathInt32(r, "sessionID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Items []service.StructureItemInput `json:"items"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	structure, err := s.structures.UpsertItems(r.Context(), sessionID, mux.Vars(r)["className"], req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, structure)
}

func (s *Server) handleGetClassFees(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathInt32(r, "sessionID")
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := s.structures.GetClassFees(r.Context(), sessionID, mux.Vars(r)["className"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleRemoveStructureItem(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathInt32(r, "sessionID")
	if err != nil {
		writeError(w, err)
		return
	}
	feeTypeID, err := pathInt32(r, "feeTypeID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.structures.RemoveItem(r.Context(), sessionID, mux.Vars(r)["className"], feeTypeID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCopyStructures(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromSessionID int32 `json:"from_session_id"`
		ToSessionID   int32 `json:"to_session_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	copied, err := s.structures.CopyStructures(r.Context(), req.FromSessionID, req.ToSessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"copied": copied})
}

func (s *Server) handleListDiscounts(w http.ResponseWriter, r *http.Request) {
	sessionID, err := queryInt32(r, "session_id")
	if err != nil {
		writeError(w, err)
		return
	}
	discounts, err := s.discounts.ListDiscounts(r.Context(), mux.Vars(r)["studentID"], sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, discounts)
}

func (s *Server) handleUpsertDiscount(w http.ResponseWriter, r *http.Request) {
	var d domain.StudentFeeDiscount
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, err)
		return
	}
	if err := s.discounts.UpsertDiscount(r.Context(), &d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.discounts.DeleteDiscount(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func pathInt32(r *http.Request, name string) (int32, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil {
		return 0, domain.InvalidInputf("invalid %s", name)
	}
	return int32(v), nil
}

func queryInt32(r *http.Request, name string) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, domain.InvalidInputf("%s is required", name)
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, domain.InvalidInputf("invalid %s", name)
	}
	return int32(v), nil
}
