package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// DefaultShutdownTimeout は停止時に処理中のリクエストを待つ時間の既定値です。
const DefaultShutdownTimeout = 10 * time.Second

// Server は HTTP API サーバーとヘルスチェック用 gRPC サーバーのライフサイクルを管理します。
type Server struct {
	grpcAddr        string
	httpAddr        string
	shutdownTimeout time.Duration
	grpcServer      *grpc.Server
	httpServer      *http.Server
	health          *health.Server
}

// Options は Server の待ち受け設定です。
type Options struct {
	GRPCAddr        string
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// New は HTTP ハンドラーと grpc.health.v1.Health を提供するサーバーを構築します。
func New(opts Options, handler http.Handler, grpcOpts ...grpc.ServerOption) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	srv := grpc.NewServer(grpcOpts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	return &Server{
		grpcAddr:        opts.GRPCAddr,
		httpAddr:        opts.HTTPAddr,
		shutdownTimeout: opts.ShutdownTimeout,
		grpcServer:      srv,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		health: hs,
	}
}

// Run は両方のサーバーを起動し、コンテキストがキャンセルされると停止します。
func (s *Server) Run(ctx context.Context) error {
	grpcLis, err := net.Listen("tcp", s.grpcAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.grpcAddr, err)
	}
	httpLis, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("listen on %s: %w", s.httpAddr, err)
	}

	log.Printf("gRPC health server listening on %s", grpcLis.Addr())
	log.Printf("HTTP server listening on %s", httpLis.Addr())
	return s.Serve(ctx, grpcLis, httpLis)
}

// Serve は与えられたリスナーで待ち受けます。どちらかのサーバーが異常終了した場合も両方を停止します。
func (s *Server) Serve(ctx context.Context, grpcLis, httpLis net.Listener) error {
	errCh := make(chan error, 2)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("serve gRPC: %w", err)
			return
		}
		errCh <- nil
	}()

	go func() {
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve HTTP: %w", err)
			return
		}
		errCh <- nil
	}()

	var serveErr error
	pending := 2
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		pending--
	}

	shutdownErr := s.shutdown()

	for ; pending > 0; pending-- {
		if err := <-errCh; err != nil && serveErr == nil {
			serveErr = err
		}
	}

	return errors.Join(serveErr, shutdownErr)
}

func (s *Server) shutdown() error {
	// 停止中はヘルスチェックに NOT_SERVING を返す。
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	var httpErr error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		httpErr = fmt.Errorf("shutdown HTTP: %w", err)
	}

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}

	return httpErr
}
