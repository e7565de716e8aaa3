//go:build windows

package winsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/eventlog"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/go-tangra/go-tangra-displays/internal/logger"
)

// eventLogWriter sends each formatted log line to the Windows Event Log at
// the severity the line was logged with.
type eventLogWriter struct {
	elog *eventlog.Log
}

func (w *eventLogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	sev := severityOf(msg)

	var err error
	switch sev {
	case severityError:
		err = w.elog.Error(sev.eventID(), msg)
	case severityWarning:
		err = w.elog.Warning(sev.eventID(), msg)
	default:
		err = w.elog.Info(sev.eventID(), msg)
	}
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// SetupEventLog redirects the package logger to the named event log source.
// If the source cannot be opened logging stays on stderr.
func SetupEventLog(name string) {
	elog, err := eventlog.Open(name)
	if err != nil {
		logger.Warn("Could not open event log; logging to stderr", "source", name, "err", err)
		return
	}
	logger.SetOutput(&eventLogWriter{elog: elog}, false)
}

// IsWindowsService reports whether the SCM started this process.
func IsWindowsService() bool {
	ok, err := svc.IsWindowsService()
	return err == nil && ok
}

type handler struct {
	name string
	run  func(ctx context.Context) error
}

func (h *handler) Execute(_ []string, req <-chan svc.ChangeRequest, status chan<- svc.Status) (bool, uint32) {
	status <- svc.Status{State: svc.StartPending}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.run(ctx) }()

	status <- svc.Status{State: svc.Running, Accepts: svc.AcceptStop | svc.AcceptShutdown}

	for {
		select {
		case err := <-done:
			status <- svc.Status{State: svc.StopPending}
			return false, h.exitCode(err)

		case cr := <-req:
			switch cr.Cmd {
			case svc.Interrogate:
				status <- cr.CurrentStatus
			case svc.Stop, svc.Shutdown:
				status <- svc.Status{State: svc.StopPending}
				cancel()
				return false, h.exitCode(h.drain(done))
			}
		}
	}
}

// drain waits for run to return after its context was cancelled.
func (h *handler) drain(done <-chan error) error {
	select {
	case err := <-done:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-time.After(stopTimeout):
		logger.Warn("Timed out waiting for graceful shutdown", "service", h.name, "timeout", stopTimeout)
		return nil
	}
}

func (h *handler) exitCode(err error) uint32 {
	if err == nil {
		return 0
	}
	logger.Error("Service stopped with error", "service", h.name, "err", err)
	return 1
}

// RunService hands the process to the SCM and blocks until the service
// stops. run's context is cancelled on a stop or shutdown request.
func RunService(name string, run func(ctx context.Context) error) error {
	return svc.Run(name, &handler{name: name, run: run})
}

// Install registers s with the Service Control Manager as an automatic
// service running exePath, and creates its event log source.
func Install(s Service, exePath string) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connect to SCM: %w", err)
	}
	defer m.Disconnect()

	if existing, err := m.OpenService(s.Name); err == nil {
		existing.Close()
		return fmt.Errorf("service %s already exists", s.Name)
	}

	ws, err := m.CreateService(s.Name, exePath, mgr.Config{
		DisplayName: s.DisplayName,
		Description: s.Description,
		StartType:   mgr.StartAutomatic,
	}, s.Args...)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	defer ws.Close()

	if err := ws.SetRecoveryActions(recoveryActions(), uint32(recoveryReset/time.Second)); err != nil {
		logger.Warn("Could not set service recovery actions", "service", s.Name, "err", err)
	}
	if err := eventlog.InstallAsEventCreate(s.Name, eventlog.Error|eventlog.Warning|eventlog.Info); err != nil {
		logger.Warn("Could not install event log source", "service", s.Name, "err", err)
	}
	return nil
}

func recoveryActions() []mgr.RecoveryAction {
	actions := make([]mgr.RecoveryAction, 0, len(restartDelays)+1)
	for _, d := range restartDelays {
		actions = append(actions, mgr.RecoveryAction{Type: mgr.ServiceRestart, Delay: d})
	}
	return append(actions, mgr.RecoveryAction{Type: mgr.NoAction})
}

// Uninstall stops the named service if it is running, then removes it and
// its event log source.
func Uninstall(name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connect to SCM: %w", err)
	}
	defer m.Disconnect()

	ws, err := m.OpenService(name)
	if err != nil {
		return fmt.Errorf("open service %s: %w", name, err)
	}
	defer ws.Close()

	if err := stopAndWait(ws); err != nil {
		logger.Warn("Service did not stop before removal", "service", name, "err", err)
	}
	if err := ws.Delete(); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if err := eventlog.Remove(name); err != nil {
		logger.Debug("Could not remove event log source", "service", name, "err", err)
	}
	return nil
}

func stopAndWait(ws *mgr.Service) error {
	status, err := ws.Query()
	if err != nil {
		return err
	}
	if status.State == svc.Stopped {
		return nil
	}
	if _, err := ws.Control(svc.Stop); err != nil {
		return err
	}
	for range stopPollAttempts {
		time.Sleep(stopPollInterval)
		if status, err = ws.Query(); err != nil {
			return err
		}
		if status.State == svc.Stopped {
			return nil
		}
	}
	return fmt.Errorf("still in state %d after %s", status.State, stopPollInterval*stopPollAttempts)
}
