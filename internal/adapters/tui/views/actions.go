package views

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"mylibrary/internal/application"
	"mylibrary/internal/application/commands"
	"mylibrary/internal/domain"
	"mylibrary/internal/ports"
)

// Message sources for failedMsg
const (
	sourceLogin    = "login"
	sourceRegister = "register"
	sourceBookForm = "bookform"
	sourceDetails  = "details"
	sourceLocation = "location"
	sourceImport   = "import"
	sourceStats    = "stats"
	sourceSettings = "settings"
	sourceProfile  = "profile"
	sourceLibrary  = "library"
)

type lookupResultMsg struct {
	meta *domain.ISBNMetadata
	miss bool
}

type statsLoadedMsg struct {
	stats *domain.Stats
}

type exportDoneMsg struct {
	result *commands.ExportResult
}

// LoadProfileCmd validates a restored credential by fetching the profile
func LoadProfileCmd(env Env) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		profile, err := env.State.Session.LoadProfile(ctx, env.State.API)
		if err != nil {
			return StartupFailedMsg{Err: err}
		}
		return ProfileLoadedMsg{Profile: profile}
	}
}

// RefreshCmd reloads the catalog cache
func RefreshCmd(env Env) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		snap, err := env.State.Catalog.Refresh(ctx)
		if err != nil {
			return failure(sourceLibrary, err)
		}
		return CatalogLoadedMsg{Snapshot: snap}
	}
}

// LogoutCmd clears the session
func LogoutCmd(env Env) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		message, err := commands.NewLogoutCommand(env.State).Execute(ctx)
		if err != nil {
			env.notify(ports.LevelError, err.Error())
		} else {
			env.notify(ports.LevelInfo, message)
		}
		return LoggedOutMsg{}
	}
}

func loginCmd(env Env, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		result, err := commands.NewLoginCommand(env.State, username, password).Execute(ctx)
		if err != nil {
			return failedMsg{source: sourceLogin, err: err}
		}
		env.notify(ports.LevelSuccess, result.Message)
		return LoggedInMsg{Message: result.Message}
	}
}

func registerCmd(env Env, email, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		result, err := commands.NewRegisterCommand(env.State, email, username, password).Execute(ctx)
		if err != nil {
			return failedMsg{source: sourceRegister, err: err}
		}
		env.notify(ports.LevelSuccess, result.Message)
		return LoggedInMsg{Message: result.Message}
	}
}

func saveBookCmd(env Env, cmd *commands.SaveBookCommand) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		result, err := cmd.Execute(ctx)
		if err != nil {
			return failure(sourceBookForm, err)
		}
		env.notify(ports.LevelSuccess, result.Message)
		return BookSavedMsg{Result: result}
	}
}

func lookupCmd(env Env, isbn string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		meta, err := commands.NewLookupISBNCommand(env.State, isbn).Execute(ctx)
		if commands.IsLookupMiss(err) {
			return lookupResultMsg{miss: true}
		}
		if err != nil {
			return failure(sourceBookForm, err)
		}
		return lookupResultMsg{meta: meta}
	}
}

func togglePinCmd(env Env, bookID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		result, err := commands.NewTogglePinCommand(env.State, bookID).Execute(ctx)
		if err != nil {
			return failure(sourceDetails, err)
		}
		env.notify(ports.LevelSuccess, result.Message)
		return PinToggledMsg{Result: result}
	}
}

func deleteBookCmd(env Env, bookID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		result, err := commands.NewDeleteBookCommand(env.State, bookID).Execute(ctx)
		if err != nil {
			return failure(sourceDetails, err)
		}
		env.notify(ports.LevelSuccess, result.Message)
		return BookDeletedMsg{Result: result}
	}
}

func createLocationCmd(env Env, cmd *commands.CreateLocationCommand, forBookForm bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		result, err := cmd.Execute(ctx)
		if err != nil {
			return failure(sourceLocation, err)
		}
		env.notify(ports.LevelSuccess, result.Message)
		return LocationCreatedMsg{Location: *result.Location, ForBookForm: forBookForm}
	}
}

func deleteLocationCmd(env Env, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		result, err := commands.NewDeleteLocationCommand(env.State, id).Execute(ctx)
		if err != nil {
			return failure(sourceSettings, err)
		}
		env.notify(ports.LevelSuccess, result.Message)
		return LocationDeletedMsg{Result: result}
	}
}

func importCmd(env Env, cmd *commands.ImportCommand) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		result, err := cmd.Execute(ctx)
		if err != nil {
			return failure(sourceImport, err)
		}
		level := ports.LevelSuccess
		if result.Tally.Failed > 0 {
			level = ports.LevelWarning
		}
		env.notify(level, result.Message)
		return ImportDoneMsg{Result: result}
	}
}

func exportCmd(env Env) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		result, err := commands.NewExportCommand(env.State, env.ExportDir).Execute(ctx)
		if err != nil {
			return failure(sourceLibrary, err)
		}
		env.notify(ports.LevelSuccess, result.Message)
		return exportDoneMsg{result: result}
	}
}

func statsCmd(env Env) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		stats, err := commands.NewStatsCommand(env.State).Execute(ctx)
		if err != nil {
			return failure(sourceStats, err)
		}
		return statsLoadedMsg{stats: stats}
	}
}

func updateProfileCmd(env Env, source string, update domain.ProfileUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := env.context()
		defer cancel()

		result, err := commands.NewUpdateProfileCommand(env.State, update).Execute(ctx)
		if err != nil {
			return failure(source, err)
		}
		env.notify(ports.LevelSuccess, result.Message)
		return ProfileUpdatedMsg{Result: result}
	}
}

// validationText returns the user-facing part of a ValidationError
func validationText(err error) string {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
