package generate

import (
	"fmt"
	"math/rand"

	"rosebot/internal/schedule"
)

// Prompt is the fully assembled generation request for one slot, plus the
// notification title that goes with it. Message content is pt-BR; that is
// the product's language.
type Prompt struct {
	System string
	User   string
	Title  string
}

// DefaultTitle is used when a sanctuary has no dedicated title.
const DefaultTitle = "🌹 Rosacruz Áurea"

// SystemPrompt grounds the model in the tradition the messages draw from.
const SystemPrompt = `Você é um guia espiritual profundamente versado na tradição da Escola Espiritual da Rosacruz Áurea (Lectorium Rosicrucianum), fundada por Jan van Rijckenborgh e Catharose de Petri.

Você conhece profundamente os seguintes conceitos e deve utilizá-los naturalmente nas mensagens:

CONCEITOS-CHAVE DA ROSACRUZ ÁUREA:
- A Rosa do Coração: o átomo-centelha divino, o ponto de contato com o mundo original
- Transfiguração: o processo de transformação fundamental do ser, não melhoria do eu-natural, mas nascimento do Homem-Alma
- O Corpo Vivo da Escola Espiritual: campo de força espiritual coletivo mantido pelos alunos e pela Fraternidade da Luz
- Os 3 Santuários: Cabeça (pensamento renovado), Coração (sentimento purificado), Pélvis (vontade dirigida ao Bem)
- Endura: o processo de auto-rendição do eu-natural para que a Alma possa crescer
- A Gnosis: o conhecimento direto, interior, do Divino
- O Caminho de Retorno: a jornada de volta ao Campo de Vida Original
- A Fraternidade Universal: a corrente de forças espirituais que sustenta o trabalho da Escola
- O Átomo-Centelha Primordial: semente divina adormecida no coração humano
- O Campo Magnético da Escola: proteção e nutrição espiritual para os alunos no caminho

CONEXÕES COM OUTRAS TRADIÇÕES:
- Budismo: a impermanência, o desapego, a natureza búdica interior (comparável à Rosa do Coração)
- Taoísmo: o Wu Wei, o retorno à origem, o Tao como caminho de volta
- Zoroastrianismo: a luta entre Luz e Trevas, o fogo interior, Ahura Mazda
- Hermetismo: "Assim em cima, como embaixo", a Tábua de Esmeralda, a transformação alquímica
- Cristianismo Original (gnóstico): o Cristo Interior, o Evangelho de João, o Logos, Paulo e a morte do velho homem
- Catarismo: a Endura, a pureza, o caminho dos Perfeitos
- Cabala: a Árvore da Vida, o retorno a Ain Soph
- Sufismo: o aniquilamento do eu (fana), a busca pelo Amado Interior
- Vedanta: Atman-Brahman, a ilusão de Maya, o despertar

OBRAS DE REFERÊNCIA:
- "A Gnosis Original Egípcia" (Jan van Rijckenborgh)
- "O Caminho das Rosas-Cruzes" (Jan van Rijckenborgh)
- "A Arquignosis Egípcia" (Jan van Rijckenborgh)
- "Dei Gloria Intacta" (Jan van Rijckenborgh)
- "O Mistério da Vida e da Morte" (Jan van Rijckenborgh)
- "O Nuctemeron de Apolônio de Tiana" (Jan van Rijckenborgh)
- "Pistis Sophia" (comentários de Jan van Rijckenborgh)

TOM DAS MENSAGENS:
- Reverente, mas não dogmático
- Inspirador e caloroso
- Prático: conectar a reflexão espiritual ao momento presente
- Poético quando apropriado, mas nunca superficial
- Sempre focado na LIGAÇÃO com o Corpo Vivo como ato consciente`

type sanctuaryDetail struct {
	name   string // pt-BR name used inside prompts
	focus  string
	moment string
	title  string
}

var sanctuaryDetails = map[schedule.Sanctuary]sanctuaryDetail{
	schedule.SanctuaryHead: {
		name:   "cabeça",
		focus:  "o pensamento renovado, a intenção consciente, a direção mental para o campo de forças da Escola",
		moment: "início do dia, quando a mente desperta e pode ser direcionada",
		title:  "🧠 Santuário da Cabeça — Intenção",
	},
	schedule.SanctuaryPelvis: {
		name:   "pélvis",
		focus:  "a renovação da vontade, a energia vital direcionada ao caminho, a ação consciente no mundo",
		moment: "meio do dia, quando a ação no mundo está em plena atividade",
		title:  "⚡ Santuário da Pélvis — Renovação",
	},
	schedule.SanctuaryHeart: {
		name:   "coração",
		focus:  "a reflexão no santuário do coração, a Rosa que pulsa, o recolhimento interior",
		moment: "noite, quando o silêncio permite ouvir a voz da Rosa do Coração",
		title:  "💖 Santuário do Coração — Reflexão",
	},
}

var secondaryThemes = []string{
	"importância do discipulado na Rosacruz Áurea",
	"ligação com o Corpo Vivo da Escola Espiritual",
	"conexão com o Budismo e a natureza búdica interior",
	"conexão com o Taoísmo e o caminho de retorno",
	"conexão com o Hermetismo e a transformação alquímica",
	"conexão com o Cristianismo gnóstico original e o Cristo Interior",
	"conexão com o Zoroastrianismo e o fogo interior sagrado",
	"o processo de Endura e a rendição do eu-natural",
	"o Átomo-Centelha e a semente divina no coração",
	"a Transfiguração como renascimento da Alma",
	"a Fraternidade Universal e a corrente de Luz",
	"o Campo Magnético da Escola como proteção espiritual",
	"conexão com o Sufismo e a busca pelo Amado Interior",
	"conexão com o Catarismo e o caminho dos Perfeitos",
}

var integrationThemes = []string{
	"a unidade dos três santuários no caminho de transfiguração",
	"como cabeça, coração e pélvis se harmonizam na ligação com o Corpo Vivo",
	"o discipulado como integração dos três centros de consciência",
	"a Endura vivida nos três santuários simultaneamente",
	"o despertar da Rosa do Coração e sua irradiação para cabeça e pélvis",
	"o Caminho de Retorno experimentado como pensamento, sentimento e ação renovados",
	"a Gnosis como conhecimento que transforma pensamento, purifica o sentimento e dirige a vontade",
	"paralelos entre os três santuários e conceitos de outras tradições espirituais",
	"a alquimia interior: sal (pélvis), mercúrio (coração) e enxofre (cabeça) na obra de transfiguração",
	"o Campo Magnético da Escola nutrido pelos três centros do aluno consciente",
}

var integrationConnections = []string{
	"Estabeleça um paralelo com o Budismo (o Caminho Óctuplo como integração de pensamento correto, intenção correta e ação correta).",
	"Estabeleça um paralelo com o Taoísmo (os três tesouros: Jing, Qi e Shen).",
	"Estabeleça um paralelo com o Hermetismo (a tríade corpo-alma-espírito e a Tábua de Esmeralda).",
	"Estabeleça um paralelo com o Cristianismo gnóstico (a tríade Pistis-Sophia-Christos).",
	"Estabeleça um paralelo com o Zoroastrianismo (bons pensamentos, boas palavras, boas ações).",
	"Estabeleça um paralelo com o Sufismo (a purificação dos três centros sutis: Nafs, Qalb e Ruh).",
	"Estabeleça um paralelo com o Vedanta (Sat-Chit-Ananda como tríade do Ser).",
	"Faça referência a uma obra de Jan van Rijckenborgh e sua relevância para o momento presente.",
	"Conecte com o Catarismo e o conceito de Consolamentum como ativação dos três centros.",
}

var ptThemes = map[string]string{
	"intention":  "intenção",
	"renewal":    "renovação",
	"reflection": "reflexão",
}

// For assembles the prompt and title for a slot. For fixed slots a
// secondary theme is rotated in at random; integration (random-slot)
// messages rotate both a theme and a cross-tradition connection.
func For(slot schedule.Slot, rng *rand.Rand) Prompt {
	if slot.Kind == schedule.KindRandom || slot.Sanctuary == schedule.SanctuaryAll {
		return integrationPrompt(rng)
	}
	return fixedPrompt(slot, rng)
}

func fixedPrompt(slot schedule.Slot, rng *rand.Rand) Prompt {
	d, ok := sanctuaryDetails[slot.Sanctuary]
	if !ok {
		return integrationPrompt(rng)
	}
	theme := ptThemes[slot.Theme]
	if theme == "" {
		theme = slot.Theme
	}
	secondary := secondaryThemes[rng.Intn(len(secondaryThemes))]

	user := fmt.Sprintf(`Gere uma mensagem curta de reflexão espiritual (3-4 frases apenas) para o santuário da %s.

Tema central: %s — %s.
Momento do dia: %s.
Tema secundário a incorporar sutilmente: %s.

A mensagem deve:
- Ser dirigida diretamente ao leitor (você)
- Inspirar uma breve pausa de consciência neste momento do dia
- Reforçar a ligação com o Corpo Vivo da Escola Espiritual
- Ter exatamente 3-4 frases, nada mais
- MÁXIMO DE 400 CARACTERES NO TOTAL (isso é crítico, a mensagem será cortada se ultrapassar)
- NÃO incluir saudações como "Bom dia" ou "Boa noite"
- NÃO incluir títulos ou cabeçalhos
- Ser em português brasileiro`,
		d.name, theme, d.focus, d.moment, secondary)

	return Prompt{System: SystemPrompt, User: user, Title: d.title}
}

func integrationPrompt(rng *rand.Rand) Prompt {
	theme := integrationThemes[rng.Intn(len(integrationThemes))]
	connection := integrationConnections[rng.Intn(len(integrationConnections))]

	user := fmt.Sprintf(`Gere uma mensagem de reflexão espiritual integradora (6-8 frases) que conecte os TRÊS santuários simultaneamente:
- Santuário da CABEÇA (pensamento renovado, intenção)
- Santuário do CORAÇÃO (sentimento purificado, a Rosa)
- Santuário da PÉLVIS (vontade dirigida, ação consciente)

Tema: %s.
%s

A mensagem deve:
- Ser dirigida diretamente ao leitor (você)
- Mostrar como os três centros trabalham juntos na ligação com o Corpo Vivo
- Ser profunda mas acessível
- Ter entre 6-8 frases
- MÁXIMO DE 900 CARACTERES NO TOTAL (isso é crítico, a mensagem será cortada se ultrapassar)
- NÃO incluir saudações
- NÃO incluir títulos ou cabeçalhos
- Ser em português brasileiro`,
		theme, connection)

	return Prompt{System: SystemPrompt, User: user, Title: "🌹 Os Três Santuários — Integração"}
}
