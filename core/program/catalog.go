package program

import "fmt"

// Catalog is the static per-program reference data: the three RFAI tracks,
// their weekly sessions & resources, questionnaires and subscale partitions.
// It is built once at startup and injected where needed; it is never mutated.
type Catalog struct {
	programs       []Program
	sessions       map[string][]Session // keyed by program ID
	questionnaires map[Track][]QuestionnaireItem
	subscales      map[Track]SubscaleTable
}

// Program IDs are stable slugs; the database seed uses the same values.
const (
	ProgramCulpaID         = "p-culpa"
	ProgramAngustiaID      = "p-angustia"
	ProgramIrritabilidadID = "p-irritabilidad"
)

func NewCatalog() *Catalog {
	c := &Catalog{
		sessions:       make(map[string][]Session, 3),
		questionnaires: make(map[Track][]QuestionnaireItem, 3),
		subscales:      make(map[Track]SubscaleTable, 3),
	}

	c.programs = []Program{
		{
			ID:          ProgramCulpaID,
			Name:        "RFAI Culpa",
			Description: "Tratamiento focalizado en culpa y responsabilidad excesiva.",
			Price:       250000,
			Track:       TrackCulpa,
		},
		{
			ID:          ProgramAngustiaID,
			Name:        "RFAI Angustia",
			Description: "Tratamiento focalizado en angustia y crisis de pánico.",
			Price:       250000,
			Track:       TrackAngustia,
		},
		{
			ID:          ProgramIrritabilidadID,
			Name:        "RFAI Irritabilidad",
			Description: "Tratamiento focalizado en manejo de ira, reactividad y control de impulsos.",
			Price:       250000,
			Track:       TrackIrritabilidad,
		},
	}

	c.sessions[ProgramCulpaID] = buildSessions(ProgramCulpaID,
		"Comprender la Señal", "Regulación Emocional", "Restitución del Vínculo", "Integración y Cierre")
	c.sessions[ProgramAngustiaID] = buildSessions(ProgramAngustiaID,
		"Desactivar la Alerta", "Seguridad Interna", "Exposición Gradual", "Confianza Total")
	c.sessions[ProgramIrritabilidadID] = buildSessions(ProgramIrritabilidadID,
		"Identificar el Detonante", "Enfriar la Reacción", "Comunicación Asertiva", "Paz Mental Sostenible")

	c.questionnaires[TrackCulpa] = culpaQuestionnaire
	c.questionnaires[TrackAngustia] = angustiaQuestionnaire
	c.questionnaires[TrackIrritabilidad] = irritabilidadQuestionnaire

	c.subscales[TrackCulpa] = SubscaleTable{
		SelfJudgment:            []string{"Autocastigo", "Somatización"},
		MaladaptiveGuilt:        []string{"Rumia", "Anticipación Catastrófica"},
		ConsciousResponsibility: []string{"Responsabilidad Excesiva"},
	}
	c.subscales[TrackAngustia] = SubscaleTable{
		SelfJudgment:            []string{"Somatización", "Agitación"},
		MaladaptiveGuilt:        []string{"Anticipación Catastrófica"},
		ConsciousResponsibility: []string{"Seguridad"},
	}
	c.subscales[TrackIrritabilidad] = SubscaleTable{
		SelfJudgment:            []string{"Reactividad", "Somatización"},
		MaladaptiveGuilt:        []string{"Percepción Hostil"},
		ConsciousResponsibility: []string{"Regulación"},
	}
	return c
}

// buildSessions lays out the 4 weekly sessions of a program:
// one audio per two-week phase (weeks 1-2 share "Fase 1", weeks 3-4 "Fase 2"),
// one guide and one test every week.
func buildSessions(progID string, titles ...string) []Session {
	sessions := make([]Session, 0, len(titles))
	for idx, title := range titles {
		week := idx + 1
		audioPhase := 1
		audioTitle := "Audio Fase 1: Fundamentos y Calma"
		if week > 2 {
			audioPhase = 2
			audioTitle = "Audio Fase 2: Profundización y Hábito"
		}
		sessions = append(sessions, Session{
			ID:        fmt.Sprintf("s-%s-%d", progID, week),
			ProgramID: progID,
			Order:     week,
			Title:     title,
			Resources: []Resource{
				{ID: fmt.Sprintf("rec-%s-audio-fase-%d", progID, audioPhase), Kind: KindAudio, Title: audioTitle, URL: "#"},
				{ID: fmt.Sprintf("rec-%s-%d-test", progID, week), Kind: KindTest, Title: "Test de Monitoreo Semanal", URL: "#"},
				{ID: fmt.Sprintf("rec-%s-%d-guia", progID, week), Kind: KindGuide, Title: fmt.Sprintf("Guía de Trabajo Semana %d", week), URL: "#"},
			},
		})
	}
	return sessions
}

func (c *Catalog) Programs() []Program { return c.programs }

func (c *Catalog) Program(id string) (Program, error) {
	for _, p := range c.programs {
		if p.ID == id {
			return p, nil
		}
	}
	return Program{}, ErrNotFound
}

func (c *Catalog) Sessions(programID string) ([]Session, error) {
	sessions, ok := c.sessions[programID]
	if !ok {
		return nil, ErrNotFound
	}
	return sessions, nil
}

func (c *Catalog) Questionnaire(track Track) []QuestionnaireItem {
	return c.questionnaires[track]
}

func (c *Catalog) SubscaleTable(track Track) SubscaleTable {
	return c.subscales[track]
}

// RFAI questionnaires: 20 items per track, Likert [1,5]. Item counts per
// subscale (6/5/7/2) derive the valid score ranges.
var (
	culpaQuestionnaire = []QuestionnaireItem{
		{1, "Me siento responsable de cosas que no controlo", "Responsabilidad Excesiva"},
		{2, "Me cuesta perdonarme mis errores pasados", "Autocompasión"},
		{3, "Siento que decepciono a los demás", "Expectativas"},
		{4, "Pienso mucho en lo que \"debería\" haber hecho", "Rumia"},
		{5, "Creo que merezco castigo cuando fallo", "Autocastigo"},
		{6, "Asumo tareas ajenas para evitar que algo salga mal", "Responsabilidad Excesiva"},
		{7, "Si alguien cercano sufre, siento que es mi deber resolverlo", "Responsabilidad Excesiva"},
		{8, "Me cuesta delegar porque el resultado depende de mí", "Responsabilidad Excesiva"},
		{9, "Creo que los problemas familiares son mi responsabilidad", "Responsabilidad Excesiva"},
		{10, "Me disculpo incluso cuando no he hecho nada malo", "Responsabilidad Excesiva"},
		{11, "Siento que debo compensar a los demás constantemente", "Responsabilidad Excesiva"},
		{12, "Repaso conversaciones pasadas buscando mis errores", "Rumia"},
		{13, "Doy vueltas a decisiones que ya no puedo cambiar", "Rumia"},
		{14, "Temo que mis errores pasados arruinen mi futuro", "Anticipación Catastrófica"},
		{15, "Imagino las peores consecuencias de mis actos", "Anticipación Catastrófica"},
		{16, "Me niego cosas agradables porque no las merezco", "Autocastigo"},
		{17, "Me hablo con dureza cuando me equivoco", "Autocastigo"},
		{18, "Creo que sufrir es la forma de reparar mis faltas", "Autocastigo"},
		{19, "Siento un nudo en el estómago cuando recuerdo mis errores", "Somatización"},
		{20, "Mi cuerpo se tensa cuando pienso en lo que hice mal", "Somatización"},
	}

	angustiaQuestionnaire = []QuestionnaireItem{
		{1, "Siento opresión en el pecho o dificultad para respirar", "Somatización"},
		{2, "Tengo miedo constante de que algo malo suceda", "Anticipación Catastrófica"},
		{3, "Me cuesta relajarme o estar quieto", "Agitación"},
		{4, "Siento inseguridad al enfrentar situaciones nuevas", "Seguridad"},
		{5, "Duermo mal pensando en mis problemas", "Sueño"},
		{6, "Noto palpitaciones o sudoración sin causa aparente", "Somatización"},
		{7, "Siento mareos o inestabilidad cuando estoy nervioso/a", "Somatización"},
		{8, "Camino de un lado a otro cuando espero noticias", "Agitación"},
		{9, "Me sobresalto con facilidad ante ruidos o imprevistos", "Agitación"},
		{10, "Anticipo catástrofes aunque todo esté tranquilo", "Anticipación Catastrófica"},
		{11, "Reviso varias veces que todo esté en orden por miedo a un accidente", "Anticipación Catastrófica"},
		{12, "Pienso que una molestia física puede ser una enfermedad grave", "Anticipación Catastrófica"},
		{13, "Evito hacer planes porque algo podría salir mal", "Anticipación Catastrófica"},
		{14, "Necesito que alguien me acompañe para sentirme tranquilo/a", "Seguridad"},
		{15, "Dudo de mi capacidad para resolver problemas cotidianos", "Seguridad"},
		{16, "Evito lugares desconocidos o concurridos", "Seguridad"},
		{17, "Me cuesta tomar decisiones sin pedir reaseguro", "Seguridad"},
		{18, "Siento que el mundo es un lugar amenazante", "Seguridad"},
		{19, "Me siento desprotegido/a cuando estoy solo/a", "Seguridad"},
		{20, "Me despierto de madrugada con preocupaciones", "Sueño"},
	}

	irritabilidadQuestionnaire = []QuestionnaireItem{
		{1, "Reacciono con rabia ante situaciones pequeñas", "Reactividad"},
		{2, "Siento que los demás hacen cosas para molestarme", "Percepción Hostil"},
		{3, "Me cuesta calmarme una vez que me he enojado", "Regulación"},
		{4, "He dicho cosas hirientes de las que luego me arrepiento", "Impulsividad"},
		{5, "Siento tensión física (mandíbula, puños) frecuentemente", "Somatización"},
		{6, "Pierdo la paciencia cuando algo no resulta a la primera", "Reactividad"},
		{7, "El tráfico o las filas me sacan de quicio", "Reactividad"},
		{8, "Siento calor o temblor en el cuerpo cuando me enojo", "Somatización"},
		{9, "Me duele la cabeza o el cuello después de una discusión", "Somatización"},
		{10, "Creo que la gente se aprovecha de mí si no me impongo", "Percepción Hostil"},
		{11, "Interpreto los comentarios neutros como ataques", "Percepción Hostil"},
		{12, "Pienso que los demás se equivocan a propósito", "Percepción Hostil"},
		{13, "Desconfío de las intenciones de quienes me rodean", "Percepción Hostil"},
		{14, "Una vez enojado/a, el malestar me dura horas", "Regulación"},
		{15, "Me cuesta volver a concentrarme después de una discusión", "Regulación"},
		{16, "Revivo la rabia cada vez que recuerdo el conflicto", "Regulación"},
		{17, "No logro dejar pasar una ofensa aunque sea menor", "Regulación"},
		{18, "Necesito tener la última palabra para quedarme tranquilo/a", "Regulación"},
		{19, "Mi enojo sube de cero a cien sin escalas", "Regulación"},
		{20, "Actúo o respondo antes de pensar en las consecuencias", "Impulsividad"},
	}
)
