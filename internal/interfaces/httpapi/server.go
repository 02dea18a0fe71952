package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bcexplorer/internal/application"
	"bcexplorer/internal/domain"
	"bcexplorer/internal/infrastructure/telemetry"
	"bcexplorer/internal/mapping"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Explorer is the read side the server exposes.
type Explorer interface {
	Block(ctx context.Context, number uint64, withTransactions bool) (domain.BlockWithTransactions, error)
	TransactionWithReceipt(ctx context.Context, hash string) (domain.TransactionWithReceipt, error)
	Address(ctx context.Context, address string) (domain.AddressDetails, error)
	AddressTransactions(ctx context.Context, filter application.TransactionQueryFilter) ([]domain.Transaction, error)
	TokenTransfers(ctx context.Context, filter application.TokenTransferFilter) ([]domain.TokenTransfer, error)
	L1L2Transactions(ctx context.Context, filter application.L1L2QueryFilter) ([]domain.L1L2Transaction, error)
	Ping(ctx context.Context) error
}

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

type Server struct {
	explorer  Explorer
	metrics   *Metrics
	buildInfo BuildInfo
}

func NewServer(explorer Explorer, metrics *Metrics, buildInfo BuildInfo) (*Server, error) {
	if explorer == nil {
		return nil, errors.New("http server explorer must not be nil")
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Server{explorer: explorer, metrics: metrics, buildInfo: buildInfo}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "GET /healthz", s.handleHealth)
	s.route(mux, "GET /readyz", s.handleReady)
	s.route(mux, "GET /blocks/{number}", s.handleBlock)
	s.route(mux, "GET /transactions/{hash}", s.handleTransaction)
	s.route(mux, "GET /addresses/{address}", s.handleAddress)
	s.route(mux, "GET /addresses/{address}/transactions", s.handleAddressTransactions)
	s.route(mux, "GET /addresses/{address}/token-transfers", s.handleTokenTransfers)
	s.route(mux, "GET /bridge/{hash}", s.handleBridge)
	s.route(mux, "GET /metrics", s.handleMetrics)
	s.route(mux, "GET /version", s.handleVersion)
	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// route registers handler under pattern with tracing and request metrics.
func (s *Server) route(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	route := pattern[strings.Index(pattern, " ")+1:]
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := telemetry.StartHTTPSpan(r, route)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler(rec, r.WithContext(ctx))
		s.metrics.ObserveRequest(route, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.explorer.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "db not ready")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseUint(r.PathValue("number"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid block number")
		return
	}
	withTransactions := true
	if raw := r.URL.Query().Get("transactions"); raw != "" {
		withTransactions, err = strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid transactions flag")
			return
		}
	}
	block, err := s.explorer.Block(r.Context(), number, withTransactions)
	if err != nil {
		s.respondQueryError(w, err)
		return
	}
	if !withTransactions {
		respondJSON(w, http.StatusOK, block.Block)
		return
	}
	respondJSON(w, http.StatusOK, block)
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")
	if !isHexHash(hash) {
		respondError(w, http.StatusBadRequest, "invalid transaction hash")
		return
	}
	tx, err := s.explorer.TransactionWithReceipt(r.Context(), hash)
	if err != nil {
		s.respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

func (s *Server) handleAddress(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r)
	if !ok {
		return
	}
	details, err := s.explorer.Address(r.Context(), address)
	if err != nil {
		s.respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (s *Server) handleAddressTransactions(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, to, err := parseBlockRange(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	transactions, err := s.explorer.AddressTransactions(r.Context(), application.TransactionQueryFilter{
		Address:   address,
		FromBlock: from,
		ToBlock:   to,
		Limit:     limit,
	})
	if err != nil {
		s.respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(transactions))
}

func (s *Server) handleTokenTransfers(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tokenAddress := r.URL.Query().Get("token")
	if tokenAddress != "" && !common.IsHexAddress(tokenAddress) {
		respondError(w, http.StatusBadRequest, "invalid token address")
		return
	}
	transfers, err := s.explorer.TokenTransfers(r.Context(), application.TokenTransferFilter{
		Address:      address,
		TokenAddress: tokenAddress,
		Limit:        limit,
	})
	if err != nil {
		s.respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(transfers))
}

func (s *Server) handleBridge(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")
	if !isHexHash(hash) {
		respondError(w, http.StatusBadRequest, "invalid hash")
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := s.explorer.L1L2Transactions(r.Context(), application.L1L2QueryFilter{Hash: hash, Limit: limit})
	if err != nil {
		s.respondQueryError(w, err)
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	snap := s.metrics.Snapshot()

	fmt.Fprintf(w, "bcexplorer_uptime_seconds %.0f\n", time.Since(snap.StartTime).Seconds())
	fmt.Fprintf(w, "bcexplorer_mapping_errors_total %d\n", snap.MappingErrors)
	for _, route := range snap.Routes {
		fmt.Fprintf(w, "bcexplorer_http_requests_total{route=%q} %d\n", route.Route, route.Requests)
		fmt.Fprintf(w, "bcexplorer_http_client_errors_total{route=%q} %d\n", route.Route, route.ClientErrors)
		fmt.Fprintf(w, "bcexplorer_http_server_errors_total{route=%q} %d\n", route.Route, route.ServerErrors)
		fmt.Fprintf(w, "bcexplorer_http_request_seconds_sum{route=%q} %.6f\n", route.Route, route.TotalDuration.Seconds())
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.buildInfo)
}

func (s *Server) respondQueryError(w http.ResponseWriter, err error) {
	var parseErr *mapping.NumericParseError
	if errors.As(err, &parseErr) {
		s.metrics.OnMappingError()
		slog.Error("stored record is not mappable", "field", parseErr.Field, "value", parseErr.Value)
		respondError(w, http.StatusInternalServerError, "stored record is malformed")
		return
	}
	if errors.Is(err, application.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	if errors.Is(err, application.ErrInvalidFilter) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Error("query failed", "err", err)
	respondError(w, http.StatusInternalServerError, "query failed")
}

func addressParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	address := r.PathValue("address")
	if !common.IsHexAddress(address) {
		respondError(w, http.StatusBadRequest, "invalid address")
		return "", false
	}
	return strings.ToLower(address), true
}

func isHexHash(value string) bool {
	decoded, err := hexutil.Decode(value)
	return err == nil && len(decoded) == common.HashLength
}

func parseLimit(r *http.Request) (int, error) {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return 0, errors.New("invalid limit")
		}
		return value, nil
	}
	return 0, nil
}

func parseBlockRange(r *http.Request) (*uint64, *uint64, error) {
	fromRaw := r.URL.Query().Get("from_block")
	toRaw := r.URL.Query().Get("to_block")

	var from *uint64
	var to *uint64

	if fromRaw != "" {
		value, err := strconv.ParseUint(fromRaw, 10, 64)
		if err != nil {
			return nil, nil, errors.New("invalid from_block")
		}
		from = &value
	}
	if toRaw != "" {
		value, err := strconv.ParseUint(toRaw, 10, 64)
		if err != nil {
			return nil, nil, errors.New("invalid to_block")
		}
		to = &value
	}
	return from, to, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
