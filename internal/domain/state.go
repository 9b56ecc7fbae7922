package domain

// Update is an event emitted by the download worker.
type Update interface {
	isUpdate()
}

type StartedRequest struct{ RequestID uint32 }

type TitleFound struct{ Title string }

type StartedVideo struct {
	VideoNo     int
	TotalVideos int
}

// Downloaded reports the fraction (0..1) of chunks fetched for the current video.
type Downloaded struct{ Progress float64 }

type Merging struct{}

type Finished struct {
	RequestID uint32
	Path      string
}

type Idle struct{}

type Failed struct{ Err error }

func (StartedRequest) isUpdate() {}
func (TitleFound) isUpdate()     {}
func (StartedVideo) isUpdate()   {}
func (Downloaded) isUpdate()     {}
func (Merging) isUpdate()        {}
func (Finished) isUpdate()       {}
func (Idle) isUpdate()           {}
func (Failed) isUpdate()         {}

// PhaseKind names the stage of the active download.
type PhaseKind int

const (
	PhaseIdle PhaseKind = iota
	PhaseAnalyzing
	PhaseDownloading
	PhaseMerging
)

// Phase is the stage of the active download. Video and progress fields are only
// meaningful while downloading.
type Phase struct {
	Kind        PhaseKind
	VideoNo     int
	TotalVideos int
	Progress    float64
}

// State is the UI-facing view of the worker.
type State struct {
	title    string
	phase    Phase
	queue    []QueueItem
	err      error
	lastPath string
}

func NewState() *State {
	return &State{}
}

// Apply folds u into the state.
func (s *State) Apply(u Update) {
	switch u := u.(type) {
	case StartedRequest:
		s.title = ""
		s.err = nil
		s.phase = Phase{Kind: PhaseAnalyzing}
		s.Remove(u.RequestID)
	case TitleFound:
		s.title = u.Title
	case StartedVideo:
		s.phase = Phase{
			Kind:        PhaseDownloading,
			VideoNo:     u.VideoNo,
			TotalVideos: u.TotalVideos,
		}
	case Downloaded:
		if s.phase.Kind == PhaseDownloading {
			s.phase.Progress = u.Progress
		}
	case Merging:
		s.phase = Phase{Kind: PhaseMerging}
	case Finished:
		s.lastPath = u.Path
	case Idle:
		s.title = ""
		s.err = nil
		s.phase = Phase{Kind: PhaseIdle}
	case Failed:
		s.err = u.Err
	}
}

func (s *State) Enqueue(q QueueItem) {
	s.queue = append(s.queue, q)
}

// Remove drops the queue item with the given request id, if present.
func (s *State) Remove(id uint32) {
	out := s.queue[:0]
	for _, q := range s.queue {
		if q.RequestID != id {
			out = append(out, q)
		}
	}
	s.queue = out
}

// Queue returns a copy of the visible queue.
func (s *State) Queue() []QueueItem {
	out := make([]QueueItem, len(s.queue))
	copy(out, s.queue)
	return out
}

func (s *State) QueueIsEmpty() bool { return len(s.queue) == 0 }

func (s *State) Title() (string, bool) { return s.title, s.title != "" }

func (s *State) Phase() Phase { return s.phase }

func (s *State) Err() error { return s.err }

func (s *State) HasError() bool { return s.err != nil }

// LastFinished is the output path of the most recent successful download.
func (s *State) LastFinished() string { return s.lastPath }
