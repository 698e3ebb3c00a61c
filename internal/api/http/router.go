package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"schoolfee-backend/internal/security"
	"schoolfee-backend/internal/service"
)

// Server bundles the handlers over the service layer.
type Server struct {
	feeTypes   service.FeeTypeService
	structures service.FeeStructureService
	discounts  service.DiscountService
	billing    service.BillingService
	collection service.CollectionService
	statements service.StatementService
	auth       service.AuthService
	renderer   service.Renderer
	tokens     security.TokenManager
}

func NewServer(
	feeTypes service.FeeTypeService,
	structures service.FeeStructureService,
	discounts service.DiscountService,
	billing service.BillingService,
	collection service.CollectionService,
	statements service.StatementService,
	auth service.AuthService,
	renderer service.Renderer,
	tokens security.TokenManager,
) *Server {
	return &Server{
		feeTypes:   feeTypes,
		structures: structures,
		discounts:  discounts,
		billing:    billing,
		collection: collection,
		statements: statements,
		auth:       auth,
		renderer:   renderer,
		tokens:     tokens,
	}
}

// Router builds the full route table. Everything under /api/v1 except login
// requires a bearer token.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/auth/login", s.handleLogin).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(s.tokens))

	// Fee type registry
	api.HandleFunc("/fee-types", s.handleListFeeTypes).Methods(http.MethodGet)
	api.HandleFunc("/fee-types", s.handleCreateFeeType).Methods(http.MethodPost)
	api.HandleFunc("/fee-types/{id:[0-9]+}", s.handleGetFeeType).Methods(http.MethodGet)
	api.HandleFunc("/fee-types/{id:[0-9]+}", s.handleUpdateFeeType).Methods(http.MethodPut)
	api.HandleFunc("/fee-types/{id:[0-9]+}", s.handleDeleteFeeType).Methods(http.MethodDelete)

	// Fee structures
	api.HandleFunc("/sessions/{sessionID:[0-9]+}/fee-structures", s.handleListStructures).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionID:[0-9]+}/fee-structures/{className}", s.handleGetStructure).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionID:[0-9]+}/fee-structures/{className}", s.handleUpsertStructureItems).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionID:[0-9]+}/fee-structures/{className}/fees", s.handleGetClassFees).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionID:[0-9]+}/fee-structures/{className}/items/{feeTypeID:[0-9]+}", s.handleRemoveStructureItem).Methods(http.MethodDelete)
	api.HandleFunc("/fee-structures/copy", s.handleCopyStructures).Methods(http.MethodPost)

	// Discounts
	api.HandleFunc("/students/{studentID}/discounts", s.handleListDiscounts).Methods(http.MethodGet)
	api.HandleFunc("/discounts", s.handleUpsertDiscount).Methods(http.MethodPost)
	api.HandleFunc("/discounts/{id:[0-9]+}", s.handleDeleteDiscount).Methods(http.MethodDelete)

	// Demand bills
	api.HandleFunc("/bills/generate", s.handleGenerateBills).Methods(http.MethodPost)
	api.HandleFunc("/bills/delete-batch", s.handleDeleteBillBatch).Methods(http.MethodPost)
	api.HandleFunc("/bills/{billNo}", s.handleGetBill).Methods(http.MethodGet)
	api.HandleFunc("/bills/{billNo}/print", s.handlePrintBill).Methods(http.MethodGet)
	api.HandleFunc("/bills/{billNo}/status", s.handleUpdateBillStatus).Methods(http.MethodPatch)
	api.HandleFunc("/students/{studentID}/bills", s.handleListStudentBills).Methods(http.MethodGet)

	// Payments
	api.HandleFunc("/payments", s.handleCollectFee).Methods(http.MethodPost)
	api.HandleFunc("/receipts/{receiptNo}", s.handleGetReceipt).Methods(http.MethodGet)
	api.HandleFunc("/receipts/{receiptNo}/print", s.handlePrintReceipt).Methods(http.MethodGet)
	api.HandleFunc("/transactions", s.handleGetTransactions).Methods(http.MethodGet)

	// Derived views and reports
	api.HandleFunc("/students/{studentID}/statement", s.handleGetStatement).Methods(http.MethodGet)
	api.HandleFunc("/students/{studentID}/dashboard", s.handleGetDashboard).Methods(http.MethodGet)
	api.HandleFunc("/students/{studentID}/feebook", s.handleGetFeeBook).Methods(http.MethodGet)
	api.HandleFunc("/reports/outstanding", s.handleOutstandingReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/bill-generation", s.handleGenerationHistory).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
