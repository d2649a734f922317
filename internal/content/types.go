package content

// Portfolio is everything the page shows that does not come from GitHub.
type Portfolio struct {
	Profile      Profile      `yaml:"profile"`
	Technologies []string     `yaml:"technologies"`
	Stats        []Stat       `yaml:"stats"`
	About        About        `yaml:"about"`
	Experience   []Experience `yaml:"experience"`
	Projects     []Project    `yaml:"projects"`
	Contact      Contact      `yaml:"contact"`
	Footer       Footer       `yaml:"footer"`
}

// Profile is the hero and metadata information.
type Profile struct {
	Name        string `yaml:"name"`
	Headline    string `yaml:"headline"`
	Intro       string `yaml:"intro"`
	Description string `yaml:"description"`
	SiteURL     string `yaml:"site_url"`
	PhotoPath   string `yaml:"photo_path"`
	ResumePath  string `yaml:"resume_path"`
	LinkedInURL string `yaml:"linkedin_url"`
	GitHubURL   string `yaml:"github_url"`
	Email       string `yaml:"email"`
}

// Stat is one of the hero counters.
type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// About is the story column and the skill groups.
type About struct {
	Story  []Paragraph  `yaml:"story"`
	Skills []SkillGroup `yaml:"skills"`
}

// Paragraph is a headed block of Markdown text.
type Paragraph struct {
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
}

// SkillGroup is a titled list of skills.
type SkillGroup struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

// Experience is one employment record.
type Experience struct {
	Title               string   `yaml:"title"`
	Company             string   `yaml:"company"`
	CompanyURL          string   `yaml:"company_url"`
	Location            string   `yaml:"location"`
	Period              string   `yaml:"period"`
	Description         string   `yaml:"description"`
	Details             string   `yaml:"details"`
	PreviewAchievements []string `yaml:"preview_achievements"`
	Achievements        []string `yaml:"achievements"`
	Tags                []string `yaml:"tags"`
	FullDescription     string   `yaml:"full_description"`
}

// cardTags is how many tags an experience card shows before "+N more".
const cardTags = 6

// CardTags returns the tags shown on the list card.
func (e Experience) CardTags() []string {
	if len(e.Tags) <= cardTags {
		return e.Tags
	}
	return e.Tags[:cardTags]
}

// MoreTags returns how many tags the card leaves out.
func (e Experience) MoreTags() int {
	return max(len(e.Tags)-cardTags, 0)
}

// Project is a curated showcase project.
type Project struct {
	Title            string   `yaml:"title"`
	Subtitle         string   `yaml:"subtitle"`
	Description      string   `yaml:"description"`
	Tags             []string `yaml:"tags"`
	GitHubURL        string   `yaml:"github_url"`
	Link             string   `yaml:"link"`
	Featured         bool     `yaml:"featured"`
	FullDescription  string   `yaml:"full_description"`
	TechnicalDetails []string `yaml:"technical_details"`
}

// Contact is the call-to-action section.
type Contact struct {
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
}

// Footer is the closing lines of the page.
type Footer struct {
	Credit  string `yaml:"credit"`
	Closing string `yaml:"closing"`
}
