package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"
)

type dialogKind int

const (
	dialogOpen dialogKind = iota
	dialogSave
)

// dialogResult is what a dialog goroutine reports back to Update.
type dialogResult struct {
	kind dialogKind
	path string
	err  error
}

// Game is the ebiten game: it owns the view state and wires input,
// loading and drawing together. All fields are touched on the Update
// goroutine only, except dialogResults.
type Game struct {
	config       Config
	configPath   string
	configStatus ConfigLoadResult

	view      *ViewState
	viewport  *Viewport
	images    *ImageManager
	lister    *FileSystemLister
	navigator *Navigator
	clipboard Clipboard
	dialogs   Dialogs

	renderer            *Renderer
	inputHandler        *InputHandler
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager

	texture     *ebiten.Image
	textureFor  *LoadedImage
	current     ImagePath // committed image
	target      ImagePath // most recently requested image
	direction   NavigationDirection
	dialogBusy  bool
	dialogDone  chan dialogResult
	exitPending bool

	showHelp           bool
	showInfo           bool
	fullscreen         bool
	overlayMessage     string
	overlayMessageTime time.Time

	screenWidth  int
	screenHeight int
}

// NewGame creates a Game from the configuration loaded from configPath.
func NewGame(configStatus ConfigLoadResult, configPath string) *Game {
	config := configStatus.Config
	lister := &FileSystemLister{SortMethod: config.SortMethod}

	g := &Game{
		config:       config,
		configPath:   configPath,
		configStatus: configStatus,
		view:         NewViewState(config.ZoomStep),
		viewport:     NewViewport(Size{}),
		images: NewImageManager(ImageManagerConfig{
			CacheSize:      config.CacheSize,
			Background:     config.Background(),
			PreloadEnabled: config.PreloadEnabled,
			PreloadCount:   config.PreloadCount,
		}),
		lister:       lister,
		navigator:    NewNavigator(lister),
		clipboard:    &systemClipboard{},
		dialogs:      zenityDialogs{},
		dialogDone:   make(chan dialogResult, 1),
		showInfo:     true,
		fullscreen:   config.Fullscreen,
		screenWidth:  config.WindowWidth,
		screenHeight: config.WindowHeight,
	}

	g.keybindingManager = NewKeybindingManager(config.Keybindings)
	g.mousebindingManager = NewMousebindingManager(config.Mousebindings, config.Mouse)
	g.inputHandler = NewInputHandler(g, g, g.keybindingManager, g.mousebindingManager)
	g.renderer = NewRenderer(g)
	g.view.OnChange(g.onViewChange)

	if configStatus.Status == "Error" || configStatus.Status == "Warning" {
		g.ShowOverlayMessage("Config " + configStatus.Status + ": see help (Shift+/)")
	}
	return g
}

func (g *Game) onViewChange(p Property) {
	switch p {
	case PropertyImageSource:
		g.syncTexture()
	case PropertyWindowTitle:
		ebiten.SetWindowTitle(g.view.WindowTitle())
	}
}

// syncTexture rebuilds the GPU texture when the displayed image changes.
func (g *Game) syncTexture() {
	img := g.view.Image()
	if img == g.textureFor {
		return
	}
	if g.texture != nil {
		g.texture.Deallocate()
		g.texture = nil
	}
	g.textureFor = img
	if img != nil {
		g.texture = ebiten.NewImageFromImage(img.Display)
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.pollLoads()
	g.pollDialogs()
	g.syncViewport()

	g.inputHandler.HandleInput()

	if g.exitPending {
		g.saveCurrentWindowSize()
		g.images.Stop()
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenWidth, g.screenHeight = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// imageAreaSize is the screen minus the status bar.
func (g *Game) imageAreaSize() Size {
	h := float64(g.screenHeight)
	if g.showInfo && !g.fullscreen {
		h -= statusBarHeight
	}
	return Size{Width: float64(g.screenWidth), Height: max(h, 0)}
}

func (g *Game) syncViewport() {
	size := g.imageAreaSize()
	g.view.SetViewportSize(size)
	g.viewport.Resize(size)
	g.viewport.SetContentSize(g.view.DisplaySize())
}

// Loading

func (g *Game) openPath(path string) {
	p, err := resolveOpenPath(path, g.config.SortMethod)
	if err != nil {
		g.reportError(err)
		return
	}
	g.requestLoad(p, NavigationJump)
}

func (g *Game) requestLoad(p ImagePath, direction NavigationDirection) {
	g.target = p
	g.direction = direction
	seq := g.images.Request(p)
	debugLog("Requested #%d %s", seq, p.Path)
}

func (g *Game) pollLoads() {
	for {
		r, ok := g.images.Poll()
		if !ok {
			return
		}
		if r.Err != nil {
			g.reportError(r.Err)
			continue
		}
		g.commit(r)
	}
}

// commit displays a completed load and preloads its neighbours.
func (g *Game) commit(r LoadResult) {
	g.current = r.Path
	g.view.SetImage(r.Image)
	g.viewport.Reset()
	g.syncViewport()

	siblings, idx, err := g.navigator.Locate(r.Path)
	if err != nil {
		debugLog("No siblings for %s: %v", r.Path.Path, err)
		return
	}
	g.images.Preload(siblings, idx, g.direction)
	debugLog("Showing [%d/%d] %s", idx+1, len(siblings), r.Path.Path)
}

func (g *Game) reportError(err error) {
	log.Printf("Error: %v", err)
	var failure *ImageLoadFailure
	if errors.As(err, &failure) {
		g.ShowOverlayMessage("Failed to read image: " + failure.Path)
		return
	}
	g.ShowOverlayMessage(err.Error())
}

// Dialogs

func (g *Game) runDialog(kind dialogKind, fn func() (string, error)) {
	if g.dialogBusy {
		return
	}
	g.dialogBusy = true
	go func() {
		path, err := fn()
		g.dialogDone <- dialogResult{kind: kind, path: path, err: err}
	}()
}

func (g *Game) pollDialogs() {
	var r dialogResult
	select {
	case r = <-g.dialogDone:
	default:
		return
	}
	g.dialogBusy = false

	if errors.Is(r.err, zenity.ErrCanceled) {
		return
	}
	if r.err != nil {
		g.reportError(r.err)
		return
	}
	switch r.kind {
	case dialogOpen:
		g.openPath(r.path)
	case dialogSave:
		log.Printf("Exported %s", r.path)
		g.ShowOverlayMessage("Saved " + r.path)
	}
}

// InputActions implementation

func (g *Game) Exit() {
	g.exitPending = true
}

func (g *Game) ToggleHelp() {
	g.showHelp = !g.showHelp
}

func (g *Game) ToggleInfo() {
	g.showInfo = !g.showInfo
	g.syncViewport()
}

func (g *Game) ToggleFullscreen() {
	g.fullscreen = !g.fullscreen
	ebiten.SetFullscreen(g.fullscreen)
	g.syncViewport()
}

func (g *Game) ToggleScroll() {
	if !g.view.HasImage() {
		return
	}
	g.view.ToggleScrollVisibility()
	if g.view.ScrollVisibility() == ScrollDisabled {
		g.viewport.Reset()
	}
	g.syncViewport()
}

func (g *Game) CycleSortMethod() {
	g.config.SortMethod = nextSortMethod(g.config.SortMethod)
	g.lister.SortMethod = g.config.SortMethod
	g.ShowOverlayMessage("Sort: " + getSortMethodName(g.config.SortMethod))
}

func (g *Game) NavigateNext() {
	g.navigate(1, NavigationForward)
}

func (g *Game) NavigatePrevious() {
	g.navigate(-1, NavigationBackward)
}

func (g *Game) navigate(offset int, direction NavigationDirection) {
	if g.target.Path == "" {
		return
	}
	p, ok := g.navigator.Step(g.target, offset)
	if !ok || p.Path == g.target.Path {
		return
	}
	g.requestLoad(p, direction)
}

func (g *Game) OpenFile() {
	g.runDialog(dialogOpen, g.dialogs.OpenImage)
}

func (g *Game) CopyToClipboard() {
	img := g.view.Image()
	if img == nil {
		return
	}
	if err := g.clipboard.CopyImage(img.Original); err != nil {
		g.reportError(err)
		return
	}
	g.ShowOverlayMessage("Copied to clipboard")
}

func (g *Game) SaveAs() {
	img := g.view.Image()
	if img == nil {
		return
	}
	dialogs := g.dialogs
	g.runDialog(dialogSave, func() (string, error) {
		path, err := dialogs.SavePNG(exportName(img.Path))
		if err != nil {
			return "", err
		}
		return ExportPNG(path, img.Display)
	})
}

func (g *Game) ZoomIn() {
	g.zoomAtCursor(1)
}

func (g *Game) ZoomOut() {
	g.zoomAtCursor(-1)
}

// zoomAtCursor zooms around the mouse cursor, or around the centre of the
// image area when the cursor is outside it.
func (g *Game) zoomAtCursor(delta float64) {
	x, y := ebiten.CursorPosition()
	area := g.imageAreaSize()
	p := Point{X: float64(x), Y: float64(y)}
	if p.X < 0 || p.Y < 0 || p.X >= area.Width || p.Y >= area.Height {
		p = Point{X: area.Width / 2, Y: area.Height / 2}
	}

	err := g.view.ZoomAt(delta, g.viewport.ToContent(p), g.viewport)
	switch {
	case errors.Is(err, ErrScaleTooSmall), errors.Is(err, ErrScaleRejected), errors.Is(err, ErrNoImage):
		debugLog("Zoom ignored: %v", err)
	case err != nil:
		log.Printf("Error: zoom failed: %v", err)
	}
}

func (g *Game) ZoomReset() {
	if g.view.ScrollVisibility() == ScrollAuto {
		g.ToggleScroll()
	}
}

func (g *Game) ScrollBy(dx, dy float64) {
	if g.view.ScrollVisibility() != ScrollAuto {
		return
	}
	g.viewport.ScrollBy(dx, dy)
}

func (g *Game) PanByDelta(deltaX, deltaY float64) {
	g.ScrollBy(deltaX, deltaY)
}

func (g *Game) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = time.Now()
}

// InputState implementation

func (g *Game) HasImage() bool {
	return g.view.HasImage()
}

func (g *Game) IsFullscreen() bool {
	return g.fullscreen
}

func (g *Game) ScrollVisibility() ScrollVisibility {
	return g.view.ScrollVisibility()
}

func (g *Game) CanScrollHorizontally() bool {
	return g.view.ScrollVisibility() == ScrollAuto && g.viewport.CanScrollHorizontally()
}

func (g *Game) ScrollStep() float64 {
	return g.config.ScrollStep
}

// RenderState implementation

func (g *Game) GetBackground() Color {
	return g.config.Background()
}

func (g *Game) GetDisplayTexture() *ebiten.Image {
	return g.texture
}

func (g *Game) GetDisplayRect() Rect {
	origin := g.viewport.ContentOrigin()
	size := g.view.DisplaySize()
	return NewRect(origin.X, origin.Y, size.Width, size.Height)
}

func (g *Game) IsShowingHelp() bool {
	return g.showHelp
}

func (g *Game) IsShowingInfo() bool {
	return g.showInfo
}

func (g *Game) GetStatusText() string {
	if !g.view.HasImage() {
		return "Ctrl+O to open an image"
	}
	return fmt.Sprintf("%s\t%s", g.view.StatusText(), g.current.Name())
}

func (g *Game) GetOverlayMessage() string {
	return g.overlayMessage
}

func (g *Game) GetOverlayMessageTime() time.Time {
	return g.overlayMessageTime
}

func (g *Game) GetFontSize() float64 {
	return g.config.HelpFontSize
}

func (g *Game) GetSortMethodName() string {
	return getSortMethodName(g.config.SortMethod)
}

func (g *Game) GetConfigStatus() ConfigLoadResult {
	return g.configStatus
}

func (g *Game) GetKeybindings() map[string][]string {
	return g.keybindingManager.GetKeybindings()
}

func (g *Game) GetMousebindings() map[string][]string {
	return g.mousebindingManager.GetMousebindings()
}

// saveCurrentWindowSize stores the windowed size and settings for the next run.
func (g *Game) saveCurrentWindowSize() {
	if !g.fullscreen {
		g.config.WindowWidth, g.config.WindowHeight = ebiten.WindowSize()
	}
	g.config.Fullscreen = g.fullscreen
	saveConfigToPath(g.config, g.configPath)
}
