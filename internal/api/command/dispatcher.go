package command

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/SessionKeeper/internal/domain/autosave"
	"github.com/GriffinCanCode/SessionKeeper/internal/domain/session"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/utils"
)

// ErrUnknownType is returned for unrecognized command types
var ErrUnknownType = errors.New("unknown message type")

// Sessions is the session lifecycle the dispatcher drives
type Sessions interface {
	List(ctx context.Context) ([]types.Session, error)
	Get(ctx context.Context, sessionID string) (types.Session, error)
	Save(ctx context.Context, nameHint string) (types.Session, error)
	Update(ctx context.Context, sessionID, nameHint string) (types.Session, error)
	AddTabs(ctx context.Context, sessionID string) (session.AddTabsResult, error)
	Restore(ctx context.Context, sessionID string) (session.RestoreResult, error)
	Delete(ctx context.Context, sessionID string) (int, error)
	Export(ctx context.Context, format string) (session.ExportResult, error)
}

// Settings reads and writes user preferences
type Settings interface {
	Read(ctx context.Context) (types.Settings, error)
	Write(ctx context.Context, patch types.SettingsPatch) (types.Settings, error)
}

// Autosave receives browser event notifications
type Autosave interface {
	Notify(reason autosave.Reason)
}

// Dispatcher routes commands to the domain and wraps every outcome in a
// Response. It never returns an error itself.
type Dispatcher struct {
	sessions Sessions
	settings Settings
	autosave Autosave
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewDispatcher creates a dispatcher
func NewDispatcher(sessions Sessions, settings Settings, autosave Autosave, logger *zap.Logger, metrics *monitoring.Metrics) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		sessions: sessions,
		settings: settings,
		autosave: autosave,
		logger:   logger,
		metrics:  metrics,
	}
}

// Dispatch executes req
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	timer := monitoring.NewTimer(d.metrics, metricLabel(req.Type))

	resp, err := d.handle(ctx, req)
	resp.RequestID = req.RequestID
	if err != nil {
		kind := kindOf(err)
		if kind == session.KindInternal {
			d.logger.Warn("command failed", zap.String("type", req.Type), zap.Error(err))
		} else {
			d.logger.Debug("command rejected", zap.String("type", req.Type), zap.Error(err))
		}
		timer.Stop("error")
		return Response{RequestID: req.RequestID, OK: false, Error: err.Error(), Kind: kind}
	}

	timer.Stop("success")
	resp.OK = true
	return resp
}

func (d *Dispatcher) handle(ctx context.Context, req Request) (Response, error) {
	switch req.Type {
	case TypeGetSettings:
		st, err := d.settings.Read(ctx)
		if err != nil {
			return Response{}, err
		}
		return Response{Settings: &st}, nil

	case TypeSetSettings:
		var patch types.SettingsPatch
		if req.Settings != nil {
			patch = *req.Settings
		}
		st, err := d.settings.Write(ctx, patch)
		if err != nil {
			return Response{}, err
		}
		return Response{Settings: &st}, nil

	case TypeGetSessions:
		sessions, err := d.sessions.List(ctx)
		if err != nil {
			return Response{}, err
		}
		if sessions == nil {
			sessions = []types.Session{}
		}
		return Response{Sessions: &sessions}, nil

	case TypeGetSession:
		id, err := sessionID(req.SessionID)
		if err != nil {
			return Response{}, err
		}
		s, err := d.sessions.Get(ctx, id)
		if err != nil {
			return Response{}, err
		}
		return Response{Session: &s}, nil

	case TypeSaveSession:
		s, err := d.sessions.Save(ctx, utils.NameHint(req.Name))
		if err != nil {
			return Response{}, err
		}
		return Response{Session: &s}, nil

	case TypeUpdateSession:
		id, err := sessionID(req.SessionID)
		if err != nil {
			return Response{}, err
		}
		s, err := d.sessions.Update(ctx, id, utils.NameHint(req.Name))
		if err != nil {
			return Response{}, err
		}
		return Response{Session: &s}, nil

	case TypeAddTabs:
		id, err := sessionID(req.SessionID)
		if err != nil {
			return Response{}, err
		}
		res, err := d.sessions.AddTabs(ctx, id)
		if err != nil {
			return Response{}, err
		}
		return Response{Result: res}, nil

	case TypeRestoreSession:
		id, err := sessionID(req.SessionID)
		if err != nil {
			return Response{}, err
		}
		res, err := d.sessions.Restore(ctx, id)
		if err != nil {
			return Response{}, err
		}
		return Response{Result: res}, nil

	case TypeDeleteSession:
		id, err := sessionID(req.SessionID)
		if err != nil {
			return Response{}, err
		}
		n, err := d.sessions.Delete(ctx, id)
		if err != nil {
			return Response{}, err
		}
		return Response{Result: DeleteResult{Deleted: n}}, nil

	case TypeExportSessions:
		format, _ := req.Format.(string)
		res, err := d.sessions.Export(ctx, format)
		if err != nil {
			return Response{}, err
		}
		return Response{Result: res}, nil

	case TypeWindowRemoved:
		return d.notify(autosave.ReasonWindowRemoved), nil

	case TypeSuspend:
		return d.notify(autosave.ReasonSuspend), nil

	default:
		return Response{}, ErrUnknownType
	}
}

func (d *Dispatcher) notify(reason autosave.Reason) Response {
	if d.autosave != nil {
		d.autosave.Notify(reason)
	}
	return Response{Result: EventResult{Accepted: true, Reason: string(reason)}}
}

func sessionID(v any) (string, error) {
	id, ok := v.(string)
	if !ok || id == "" {
		return "", session.ErrInvalidID
	}
	return id, nil
}

func kindOf(err error) session.Kind {
	if errors.Is(err, ErrUnknownType) {
		return session.KindValidation
	}
	return session.KindOf(err)
}

// metricLabel bounds the command label set to known types
func metricLabel(t string) string {
	switch t {
	case TypeGetSettings, TypeSetSettings, TypeGetSessions, TypeGetSession,
		TypeSaveSession, TypeUpdateSession, TypeAddTabs, TypeRestoreSession,
		TypeDeleteSession, TypeExportSessions, TypeWindowRemoved, TypeSuspend:
		return t
	default:
		return "unknown"
	}
}
