package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyActive             = "active"
	KeyCompleted          = "completed"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyProfile            = "profile"
	KeyProfilePlaceholder = "profile_placeholder"
	KeyOtherProjects      = "other_projects"
	KeyOtherPlaceholder   = "other_placeholder"
	KeyHideAfter          = "hide_after"
	KeyHideAfterHint      = "hide_after_hint"
	KeySave               = "save"
	KeyOpen               = "open"
	KeyRefreshNow         = "refresh_now"
	KeySettingsSaved      = "settings_saved"
	KeySettingsError      = "settings_error"
	KeyErrorOpeningPage   = "error_opening_page"
	KeyHiddenCount        = "hidden_count"
	KeyStale              = "stale"
	KeyNoActive           = "no_active"
	KeyNoCompleted        = "no_completed"
	KeySummary            = "summary"
	KeyRefreshing         = "refreshing"
	KeyReconcileFailed    = "reconcile_failed"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "Kick Tracker",
		KeyActive:             "Active",
		KeyCompleted:          "Completed",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyProfile:            "Profile",
		KeyProfilePlaceholder: "Profile name, e.g. jdoe",
		KeyOtherProjects:      "Other projects",
		KeyOtherPlaceholder:   "creator/project, creator/other-project",
		KeyHideAfter:          "Hide completed after (days)",
		KeyHideAfterHint:      "Leave empty or type any non-number to show everything",
		KeySave:               "Save",
		KeyOpen:               "Open",
		KeyRefreshNow:         "Refresh now",
		KeySettingsSaved:      "Settings saved",
		KeySettingsError:      "Could not save settings",
		KeyErrorOpeningPage:   "Error opening page",
		KeyHiddenCount:        "%d hidden by the age filter",
		KeyStale:              "Last refresh failed; showing earlier data",
		KeyNoActive:           "No active projects",
		KeyNoCompleted:        "No completed projects",
		KeySummary:            "%d active · %d completed",
		KeyRefreshing:         "Refreshing...",
		KeyReconcileFailed:    "Some projects could not be loaded",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "Kick Tracker",
		KeyActive:             "Активные",
		KeyCompleted:          "Завершённые",
		KeySettings:           "Настройки",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeyProfile:            "Профиль",
		KeyProfilePlaceholder: "Имя профиля, например jdoe",
		KeyOtherProjects:      "Другие проекты",
		KeyOtherPlaceholder:   "автор/проект, автор/другой-проект",
		KeyHideAfter:          "Скрывать завершённые через (дней)",
		KeyHideAfterHint:      "Оставьте пустым или введите не число, чтобы показывать всё",
		KeySave:               "Сохранить",
		KeyOpen:               "Открыть",
		KeyRefreshNow:         "Обновить",
		KeySettingsSaved:      "Настройки сохранены",
		KeySettingsError:      "Не удалось сохранить настройки",
		KeyErrorOpeningPage:   "Ошибка открытия страницы",
		KeyHiddenCount:        "Скрыто фильтром по возрасту: %d",
		KeyStale:              "Последнее обновление не удалось; показаны прежние данные",
		KeyNoActive:           "Нет активных проектов",
		KeyNoCompleted:        "Нет завершённых проектов",
		KeySummary:            "активных: %d · завершённых: %d",
		KeyRefreshing:         "Обновление...",
		KeyReconcileFailed:    "Некоторые проекты не удалось загрузить",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "Kick Tracker",
		KeyActive:             "Ativos",
		KeyCompleted:          "Concluídos",
		KeySettings:           "Configurações",
		KeyFile:               "Arquivo",
		KeyLanguage:           "Idioma",
		KeyProfile:            "Perfil",
		KeyProfilePlaceholder: "Nome do perfil, ex. jdoe",
		KeyOtherProjects:      "Outros projetos",
		KeyOtherPlaceholder:   "criador/projeto, criador/outro-projeto",
		KeyHideAfter:          "Ocultar concluídos após (dias)",
		KeyHideAfterHint:      "Deixe vazio ou digite algo não numérico para mostrar tudo",
		KeySave:               "Salvar",
		KeyOpen:               "Abrir",
		KeyRefreshNow:         "Atualizar agora",
		KeySettingsSaved:      "Configurações salvas",
		KeySettingsError:      "Não foi possível salvar as configurações",
		KeyErrorOpeningPage:   "Erro ao abrir página",
		KeyHiddenCount:        "%d ocultos pelo filtro de idade",
		KeyStale:              "A última atualização falhou; mostrando dados anteriores",
		KeyNoActive:           "Nenhum projeto ativo",
		KeyNoCompleted:        "Nenhum projeto concluído",
		KeySummary:            "%d ativos · %d concluídos",
		KeyRefreshing:         "Atualizando...",
		KeyReconcileFailed:    "Alguns projetos não puderam ser carregados",
	}
}
