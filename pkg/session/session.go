// Package session wires the frame transport, APDU codec, association
// state machine, MDS model, and measurement decoder into the single
// synchronous call external callers use to pull a glucose-reading
// sequence out of a Roche Accu-Chek meter, collapsing the teacher's
// master.New/Enable/Shutdown lifecycle (§10.1) down to one Download call
// per §5/§9's single-threaded cooperative model.
package session

import (
	"context"
	"errors"
	"io"
	"time"

	"accuchek/phd-go/pkg/assoc"
	"accuchek/phd-go/internal/logger"
	"accuchek/phd-go/pkg/mds"
	"accuchek/phd-go/pkg/measurement"
	"accuchek/phd-go/pkg/transport"
)

// Config collects the session-level knobs the core needs from its
// caller, in the style of the teacher's MasterConfig/OutstationConfig.
type Config struct {
	// SystemID is the host identifier advertised in AARQ. Any stable
	// 8-byte value is acceptable; all-zero is fine (§4.3).
	SystemID []byte
	// Timeout bounds every individual I/O turn. Zero selects
	// transport.DefaultTimeout.
	Timeout time.Duration
	// Trace, when true, logs every frame in hex via TraceWriter (§4.1,
	// §6). The core never reads ACCUCHEK_DBG itself; the caller decides.
	Trace       bool
	TraceWriter io.Writer
	// KnownConfig is the core's built-in configuration-report table.
	// Always empty for this driver (§4.3, §9, §10.4); exposed so a
	// future device family with genuinely pre-known configs can supply
	// one without changing the session API.
	KnownConfig map[uint16]mds.ConfigReport
}

// DefaultConfig returns a Config with an all-zero 8-byte SystemID and the
// transport's default timeout.
func DefaultConfig() Config {
	return Config{SystemID: make([]byte, 8), Timeout: transport.DefaultTimeout}
}

// Session owns one download attempt against a meter's opened USB
// endpoints. It is not reusable across devices: construct a new Session
// per Download call, mirroring the spec's "one Association per session"
// lifetime (§3).
type Session struct {
	config Config
	log    logger.Logger
}

// New creates a Session with the given config and logger. A nil logger
// falls back to a no-op logger, matching the teacher's master/outstation
// constructors.
func New(config Config, log logger.Logger) *Session {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if config.Timeout <= 0 {
		config.Timeout = transport.DefaultTimeout
	}
	return &Session{config: config, log: log}
}

// ErrCancelled is returned when ctx is cancelled between I/O turns; the
// association has already been closed in an orderly fashion by the time
// this error reaches the caller (§5).
var ErrCancelled = assoc.ErrCancelled

// Download drives one full PHD exchange over ep: association, the
// MDC_NOTI_CONFIG handshake, GET MDS, and a PM-Store readout, returning
// every Reading in session order. Per §7's propagation policy, any error
// is fatal to the session; Download attempts an orderly Close before
// returning a non-nil error whenever the association reached Operating.
func (s *Session) Download(ctx context.Context, ep transport.Endpoints) ([]measurement.Reading, error) {
	ft := transport.New(ep, s.config.Timeout, s.log)
	if s.config.Trace {
		ft.SetTrace(true, s.config.TraceWriter)
	}

	assn := assoc.New(ft, s.config.SystemID, s.config.KnownConfig, s.log)
	assn.SetCancelCheck(func() bool { return ctx.Err() != nil })

	s.log.Info("session: opening association")
	if err := assn.Open(); err != nil {
		return nil, s.reportFatal(err)
	}
	s.log.Info("session: associated, config-id=%d", assn.Config().ConfigID)

	mdsAttrs, err := s.getMDS(assn)
	if err != nil {
		s.closeOnError(assn)
		return nil, s.reportFatal(err)
	}
	s.log.Info("session: MDS system-type=%d system-model=%q", mdsAttrs.SystemType, mdsAttrs.SystemModel)

	readings, err := measurement.Decode(assn, assn.Config(), s.log)
	if err != nil {
		s.closeOnError(assn)
		return nil, s.reportFatal(err)
	}

	if err := assn.Close(); err != nil {
		return readings, err
	}
	s.log.Info("session: downloaded %d readings", len(readings))
	return readings, nil
}

// getMDS issues GET MDS (object handle 0, empty attribute-id list, §4.4)
// and parses the response into mds.Attributes.
func (s *Session) getMDS(assn *assoc.Association) (mds.Attributes, error) {
	attrs, err := assn.Get(0, nil)
	if err != nil {
		return mds.Attributes{}, err
	}
	return mds.ParseMDS(attrs)
}

// closeOnError performs a best-effort orderly disassociation after a
// fatal error and before propagating it, per §7: "The SM attempts an
// orderly disassociation (RLRQ with up to one timeout) before returning."
// Close's own errors are logged, not propagated — the original error
// already explains the failure.
func (s *Session) closeOnError(assn *assoc.Association) {
	if assn.State() == assoc.StateTerminated {
		return
	}
	if err := assn.Close(); err != nil && !errors.Is(err, assoc.ErrCancelled) {
		s.log.Warn("session: close after error failed: %v", err)
	}
}

// reportFatal tags err as the cause of a session teardown, per §7's
// propagation policy, before Download returns it to the caller.
func (s *Session) reportFatal(err error) error {
	s.log.SessionFatal(err)
	return err
}
