package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeySearch             = "search"
	KeySearchPlaceholder  = "search_placeholder"
	KeyAllCategories      = "all_categories"
	KeyRefreshCategories  = "refresh_categories"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyAPIBaseURL         = "api_base_url"
	KeyDownloadDirectory  = "download_directory"
	KeyPreviewMaxIndex    = "preview_max_index"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyBrowse             = "browse"
	KeySettingsSaved      = "settings_saved"
	KeyRestartRequired    = "restart_required"
	KeyLoading            = "loading"
	KeyNoResults          = "no_results"
	KeyResultsCount       = "results_count"
	KeyRequestFailed      = "request_failed"
	KeyDownload           = "download"
	KeyDownloads          = "downloads"
	KeyDownloadStarted    = "download_started"
	KeyDownloadCompleted  = "download_completed"
	KeyDownloadFailed     = "download_failed"
	KeyAlreadyDownloading = "already_downloading"
	KeyReveal             = "reveal"
	KeyRemove             = "remove"
	KeyPreview            = "preview"
	KeyNoPreview          = "no_preview"
	KeyPreviews           = "previews"
	KeyNoPreviews         = "no_previews"
	KeyMetadata           = "metadata"
	KeyNoMetadata         = "no_metadata"
	KeyMetadataFailed     = "metadata_failed"
	KeyErrorOpeningFile   = "error_opening_file"
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

// SetLanguage sets the current language. Unknown codes keep the current
// one; "system" selects English.
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
	if text, found := l.texts["en"][key]; found {
		return text
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
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "MyLoRA",
		KeySearch:             "Search",
		KeySearchPlaceholder:  "Search models, press Enter",
		KeyAllCategories:      "All categories",
		KeyRefreshCategories:  "Refresh categories",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyAPIBaseURL:         "Catalog URL",
		KeyDownloadDirectory:  "Download Directory",
		KeyPreviewMaxIndex:    "Preview images per model",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyBrowse:             "Browse",
		KeySettingsSaved:      "Settings saved",
		KeyRestartRequired:    "A new catalog URL takes effect after restart",
		KeyLoading:            "Loading...",
		KeyNoResults:          "No results",
		KeyResultsCount:       "%d results",
		KeyRequestFailed:      "Request failed",
		KeyDownload:           "Download",
		KeyDownloads:          "Downloads",
		KeyDownloadStarted:    "Download started",
		KeyDownloadCompleted:  "Download completed",
		KeyDownloadFailed:     "Download failed",
		KeyAlreadyDownloading: "Already downloading to this file",
		KeyReveal:             "Show in folder",
		KeyRemove:             "Remove",
		KeyPreview:            "Preview",
		KeyNoPreview:          "No preview",
		KeyPreviews:           "More previews",
		KeyNoPreviews:         "No further previews",
		KeyMetadata:           "Metadata",
		KeyNoMetadata:         "No metadata",
		KeyMetadataFailed:     "Metadata unavailable",
		KeyErrorOpeningFile:   "Error opening file",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "MyLoRA",
		KeySearch:             "Поиск",
		KeySearchPlaceholder:  "Поиск моделей, Enter для запуска",
		KeyAllCategories:      "Все категории",
		KeyRefreshCategories:  "Обновить категории",
		KeySettings:           "Настройки",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeyAPIBaseURL:         "Адрес каталога",
		KeyDownloadDirectory:  "Папка загрузки",
		KeyPreviewMaxIndex:    "Превью на модель",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeyBrowse:             "Обзор",
		KeySettingsSaved:      "Настройки сохранены",
		KeyRestartRequired:    "Новый адрес каталога применится после перезапуска",
		KeyLoading:            "Загрузка...",
		KeyNoResults:          "Ничего не найдено",
		KeyResultsCount:       "Найдено: %d",
		KeyRequestFailed:      "Ошибка запроса",
		KeyDownload:           "Скачать",
		KeyDownloads:          "Загрузки",
		KeyDownloadStarted:    "Загрузка начата",
		KeyDownloadCompleted:  "Загрузка завершена",
		KeyDownloadFailed:     "Ошибка загрузки",
		KeyAlreadyDownloading: "Этот файл уже загружается",
		KeyReveal:             "Показать в папке",
		KeyRemove:             "Убрать",
		KeyPreview:            "Превью",
		KeyNoPreview:          "Нет превью",
		KeyPreviews:           "Другие превью",
		KeyNoPreviews:         "Других превью нет",
		KeyMetadata:           "Метаданные",
		KeyNoMetadata:         "Нет метаданных",
		KeyMetadataFailed:     "Метаданные недоступны",
		KeyErrorOpeningFile:   "Не удалось открыть файл",
	}
}
