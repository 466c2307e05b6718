// internal/config/config.go
package config

import "image/color"

const (
	ScreenWidth  = 1024
	ScreenHeight = 768
	MaxDeltaTime = 0.06

	// Константы разметки экранов
	HeaderY         = 60
	SubHeaderY      = 90
	ButtonWidth     = 260
	ButtonHeight    = 48
	CardWidth       = 220
	CardHeight      = 300
	CardSpacing     = 24
	PortraitSize    = 160
	HealthBarHeight = 18
	ToastHeight     = 44

	TitleFontSize   = 28
	RegularFontSize = 16
)

// Деплой игрового контракта
const ContractAddress = "0x15d8E00E625b618C65eB138F3d77d54d31555f9B"

var (
	BackgroundColor = color.RGBA{20, 20, 30, 255}
	TextLightColor  = color.RGBA{240, 240, 240, 255}
	TextDimColor    = color.RGBA{150, 150, 170, 255}
	AccentColor     = color.RGBA{160, 110, 218, 255}
	AccentHover     = color.RGBA{190, 140, 240, 255}
	DisabledColor   = color.RGBA{80, 80, 90, 255}
	PanelColor      = color.RGBA{25, 35, 45, 230}
	PanelBorder     = color.RGBA{70, 130, 180, 255}
	HealthColor     = color.RGBA{50, 205, 50, 255}
	BossHealthColor = color.RGBA{220, 60, 60, 255}
	HealthBgColor   = color.RGBA{60, 60, 70, 255}
	ToastColor      = color.RGBA{180, 140, 20, 240}
	NoticeColor     = color.RGBA{220, 120, 60, 255}
)
