package program

// Service exposes the program catalog and the content gate / scoring rules
// around it.
type Service struct {
	catalog *Catalog
}

func NewService(catalog *Catalog) *Service {
	return &Service{catalog: catalog}
}

func (svc *Service) QueryAll() []Program {
	return svc.catalog.Programs()
}

func (svc *Service) GetByID(id string) (Program, error) {
	return svc.catalog.Program(id)
}

// Sessions returns the raw weekly sessions of a program, resources included.
// Staff views use this; patient views go through VisibleSessions.
func (svc *Service) Sessions(programID string) ([]Session, error) {
	return svc.catalog.Sessions(programID)
}

// VisibleSessions returns a patient's view of the program for the given
// current week: each session carries its gate status and locked sessions have
// their resources withheld.
func (svc *Service) VisibleSessions(programID string, currentWeek int) ([]GatedSession, error) {
	sessions, err := svc.catalog.Sessions(programID)
	if err != nil {
		return nil, err
	}
	return VisibleSessions(sessions, currentWeek), nil
}

func (svc *Service) Questionnaire(programID string) ([]QuestionnaireItem, error) {
	prog, err := svc.catalog.Program(programID)
	if err != nil {
		return nil, err
	}
	return svc.catalog.Questionnaire(prog.Track), nil
}

// AggregateScores folds a patient's Likert answers into the four clinical
// subscale scores of the program's track. It does not validate ranges;
// callers persisting scores run Scores.Validate first.
func (svc *Service) AggregateScores(programID string, answers map[int]int) (Scores, error) {
	prog, err := svc.catalog.Program(programID)
	if err != nil {
		return Scores{}, err
	}
	items := svc.catalog.Questionnaire(prog.Track)
	table := svc.catalog.SubscaleTable(prog.Track)
	return Aggregate(answers, items, table), nil
}
