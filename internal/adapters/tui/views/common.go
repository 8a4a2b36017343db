package views

// chromeLines is the height taken by title, subtitle, status and help
const chromeLines = 9

// Pane is the frame shared by the browser, metadata and search views: the
// terminal size and a one-line status under the content.
type Pane struct {
	Width     int
	Height    int
	Status    string
	StatusErr bool
}

func (p *Pane) SetSize(width, height int) {
	p.Width = width
	p.Height = height
}

// BodyHeight is the number of content lines left once the chrome is drawn,
// never less than floor
func (p *Pane) BodyHeight(floor int) int {
	return max(p.Height-chromeLines, floor)
}

// Info shows a status line
func (p *Pane) Info(msg string) {
	p.Status, p.StatusErr = msg, false
}

// Fail shows an error status line
func (p *Pane) Fail(msg string) {
	p.Status, p.StatusErr = msg, true
}

func (p *Pane) ClearStatus() {
	p.Status, p.StatusErr = "", false
}

// StatusLine renders the status, empty when there is none
func (p *Pane) StatusLine() string {
	return RenderStatus(p.Status, p.StatusErr)
}
