package ui

import (
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyDownload          = "download"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyFetchResolutions  = "fetch_resolutions"
	KeyEnterURL          = "enter_url"
	KeyDownloadType      = "download_type"
	KeyVideoFormat       = "video_format"
	KeyAudioFormat       = "audio_format"
	KeyQuality           = "quality"
	KeyQualityBest       = "quality_best"
	KeyDownloadDirectory = "download_directory"
	KeyLanguage          = "language"
	KeyFile              = "file"
	KeyOpenFolder        = "open_folder"
	KeyReady             = "ready"
	KeyCancelling        = "cancelling"
	KeySavedTo           = "saved_to"
	KeyInvalidURL        = "invalid_url"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyResolutionsFound  = "resolutions_found"
)

// DefaultLanguage is used when the requested or system language has no texts
const DefaultLanguage = "en"

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: DefaultLanguage,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" follows $LANG.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
		return
	}
	l.currentLanguage = DefaultLanguage
}

// systemLanguage extracts the language code from a POSIX locale like "ru_RU.UTF-8"
func systemLanguage() string {
	locale := os.Getenv("LC_ALL")
	if locale == "" {
		locale = os.Getenv("LANG")
	}
	code, _, _ := strings.Cut(locale, "_")
	code, _, _ = strings.Cut(code, ".")
	return strings.ToLower(code)
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if text, found := l.texts[l.currentLanguage][key]; found {
		return text
	}
	if text, found := l.texts[DefaultLanguage][key]; found {
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
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "YT Fetch",
		KeyDownload:          "Download",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyFetchResolutions:  "Fetch resolutions",
		KeyEnterURL:          "Enter video URL (https://youtube.com/watch?v=...)",
		KeyDownloadType:      "Type",
		KeyVideoFormat:       "Video format",
		KeyAudioFormat:       "Audio format",
		KeyQuality:           "Quality",
		KeyQualityBest:       "Best available",
		KeyDownloadDirectory: "Download Directory",
		KeyLanguage:          "Language",
		KeyFile:              "File",
		KeyOpenFolder:        "Open download folder",
		KeyReady:             "Ready",
		KeyCancelling:        "Cancelling...",
		KeySavedTo:           "Saved to",
		KeyInvalidURL:        "Invalid URL",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyErrorOpeningFile:  "Error opening file",
		KeyResolutionsFound:  "Resolutions found",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "YT Fetch",
		KeyDownload:          "Скачать",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyFetchResolutions:  "Получить разрешения",
		KeyEnterURL:          "Введите URL видео (https://youtube.com/watch?v=...)",
		KeyDownloadType:      "Тип",
		KeyVideoFormat:       "Формат видео",
		KeyAudioFormat:       "Формат аудио",
		KeyQuality:           "Качество",
		KeyQualityBest:       "Лучшее доступное",
		KeyDownloadDirectory: "Папка загрузки",
		KeyLanguage:          "Язык",
		KeyFile:              "Файл",
		KeyOpenFolder:        "Открыть папку загрузки",
		KeyReady:             "Готово к работе",
		KeyCancelling:        "Отмена...",
		KeySavedTo:           "Сохранено в",
		KeyInvalidURL:        "Неверный URL",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyResolutionsFound:  "Найдены разрешения",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "YT Fetch",
		KeyDownload:          "Baixar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Procurar",
		KeyFetchResolutions:  "Buscar resoluções",
		KeyEnterURL:          "Digite a URL do vídeo (https://youtube.com/watch?v=...)",
		KeyDownloadType:      "Tipo",
		KeyVideoFormat:       "Formato de vídeo",
		KeyAudioFormat:       "Formato de áudio",
		KeyQuality:           "Qualidade",
		KeyQualityBest:       "Melhor disponível",
		KeyDownloadDirectory: "Diretório de Download",
		KeyLanguage:          "Idioma",
		KeyFile:              "Arquivo",
		KeyOpenFolder:        "Abrir pasta de download",
		KeyReady:             "Pronto",
		KeyCancelling:        "Cancelando...",
		KeySavedTo:           "Salvo em",
		KeyInvalidURL:        "URL inválida",
		KeyPleaseEnterURL:    "Por favor, digite uma URL",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
		KeyResolutionsFound:  "Resoluções encontradas",
	}
}
