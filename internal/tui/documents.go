package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/estate/internal/browser"
	"github.com/naveenspark/estate/pkg/client"
	"github.com/naveenspark/estate/pkg/domain"
)

// defaultDocumentType is sent with uploads made from the terminal.
const defaultDocumentType = "other"

type uploadResultMsg struct {
	doc *domain.Document
	err error
}

type openResultMsg struct {
	err error
}

// documentsScreen lists documents and folders, and uploads local files.
type documentsScreen struct {
	client      *client.Client
	documents   recordList[domain.Document]
	folders     recordList[domain.Folder]
	showFolders bool
	uploading   bool
	uploadPath  string
	status      string
}

func newDocumentsScreen(c *client.Client, sess Session) documentsScreen {
	d := newRecordList(c, client.Documents, "Documents", documentRow)
	d.deletable = allowed(sess, domain.CanEditProperties)
	f := newRecordList(c, client.Folders, "Folders", folderRow)
	f.deletable = allowed(sess, domain.CanEditProperties)
	return documentsScreen{client: c, documents: d, folders: f}
}

func (s documentsScreen) Init() tea.Cmd { return s.documents.load() }

// upload reads path and sends it as a new document, filed in the folder
// under the cursor when the folder tab was last used.
func (s documentsScreen) upload(path string) tea.Cmd {
	c := s.client
	var folder *int64
	if f, ok := s.folders.selected(); ok && s.showFolders {
		id := f.ID
		folder = &id
	}
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return uploadResultMsg{err: fmt.Errorf("read %s: %w", path, err)}
		}
		name := filepath.Base(path)
		doc, err := c.UploadDocument(context.Background(), domain.DocumentUpload{
			Title:        strings.TrimSuffix(name, filepath.Ext(name)),
			DocumentType: defaultDocumentType,
			Folder:       folder,
			FileName:     name,
			Content:      content,
		})
		if err != nil {
			return uploadResultMsg{err: fmt.Errorf("client.UploadDocument: %w", err)}
		}
		return uploadResultMsg{doc: doc}
	}
}

func (s documentsScreen) open(doc domain.Document) tea.Cmd {
	base := ""
	if s.client != nil {
		base = s.client.BaseURL()
	}
	ref := doc.File
	return func() tea.Msg {
		target, err := browser.Resolve(base, ref)
		if err != nil {
			return openResultMsg{err: err}
		}
		return openResultMsg{err: browser.Open(target)}
	}
}

func (s documentsScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadResultMsg:
		if msg.err != nil {
			s.status = "upload failed: " + msg.err.Error()
			return s, nil
		}
		s.status = fmt.Sprintf("uploaded %q", msg.doc.Title)
		s.showFolders = false
		s.documents.loading = true
		return s, s.documents.load()

	case openResultMsg:
		if msg.err != nil {
			s.status = "open failed: " + msg.err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		s.status = ""
		if s.uploading {
			switch msg.String() {
			case "enter":
				s.uploading = false
				path := expandHome(strings.TrimSpace(s.uploadPath))
				if path == "" {
					return s, nil
				}
				s.status = "uploading " + filepath.Base(path) + "..."
				return s, s.upload(path)
			case "esc":
				s.uploading = false
			default:
				s.uploadPath = editKey(s.uploadPath, msg)
			}
			return s, nil
		}
		if !s.Editing() {
			switch msg.String() {
			case "tab":
				s.showFolders = !s.showFolders
				if s.showFolders && s.folders.items == nil {
					return s, s.folders.load()
				}
				return s, nil
			case "u":
				s.uploading = true
				s.uploadPath = ""
				return s, nil
			case "o":
				if doc, ok := s.documents.selected(); ok && !s.showFolders {
					return s, s.open(doc)
				}
			}
		}
		var cmd tea.Cmd
		if s.showFolders {
			s.folders, cmd = s.folders.update(msg)
		} else {
			s.documents, cmd = s.documents.update(msg)
		}
		return s, cmd
	}

	var c1, c2 tea.Cmd
	s.documents, c1 = s.documents.update(msg)
	s.folders, c2 = s.folders.update(msg)
	return s, tea.Batch(c1, c2)
}

func (s documentsScreen) View() string {
	tabs := "\n  " + tabLabel("Documents", !s.showFolders) + "  " + tabLabel("Folders", s.showFolders)
	body := s.documents.View()
	if s.showFolders {
		body = s.folders.View()
	}
	var footer string
	switch {
	case s.uploading:
		footer = "\n  " + inputPromptStyle.Render("upload file: ") + s.uploadPath + accentStyle.Render("█") + "\n"
	case s.status != "":
		footer = "\n  " + dimStyle.Render(s.status) + "\n"
	}
	return tabs + body + footer
}

func (s documentsScreen) Help() string {
	if s.uploading {
		return helpBar("enter", "upload", "esc", "cancel")
	}
	keys := []string{"tab", "switch", "u", "upload"}
	if s.showFolders {
		keys = append(keys, s.folders.help()...)
	} else {
		keys = append(keys, "o", "open")
		keys = append(keys, s.documents.help()...)
	}
	return helpBar(keys...)
}

func (s documentsScreen) Editing() bool {
	if s.uploading {
		return true
	}
	if s.showFolders {
		return s.folders.editing()
	}
	return s.documents.editing()
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func documentRow(d domain.Document) string {
	return fmt.Sprintf("%-36s %-12s %9s  %s",
		truncStr(d.Title, 36), d.DocumentType, formatSize(d.FileSize), metaStyle.Render(formatTime(d.CreatedAt)))
}

func folderRow(f domain.Folder) string {
	return fmt.Sprintf("%-36s %s", truncStr(f.Name+"/", 36), dimStyle.Render(fmt.Sprintf("%d documents", f.DocumentCount)))
}

func formatSize(n int64) string {
	switch {
	case n <= 0:
		return ""
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	}
}
