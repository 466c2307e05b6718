// internal/event/types.go
package event

const (
	AccountChanged   EventType = "AccountChanged"   // Аккаунт подключён или сменился
	CharacterChanged EventType = "CharacterChanged" // Персонаж заменён или пропатчен
	BossChanged      EventType = "BossChanged"      // Босс загружен или пропатчен
	RosterLoaded     EventType = "RosterLoaded"     // Загружен список шаблонов
	LoadingChanged   EventType = "LoadingChanged"
	ActivityChanged  EventType = "ActivityChanged" // minting / attacking
	NoticeRaised     EventType = "NoticeRaised"    // Сообщение пользователю
)
