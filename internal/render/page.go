package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"slidedeck/internal/models"
	"slidedeck/internal/viewer"
)

// ErrIndexOutOfRange is returned by Page for an index outside the deck
var ErrIndexOutOfRange = errors.New("slide index out of range")

const tailwindCDN = "https://cdn.tailwindcss.com?plugins=typography"

// Page renders the full viewer page for the slide at index. An empty
// presentation renders an empty-state page at index 0.
func Page(doc *models.Document, index int) (*html.Node, error) {
	count := len(doc.Slides)
	if index < 0 || (index >= count && !(count == 0 && index == 0)) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, count)
	}

	settings := doc.Settings
	main := element("main", "fixed inset-0 w-full h-full flex items-center justify-center overflow-hidden")
	setAttr(main, "style", mainStyle(settings))
	setAttr(main, "data-index", strconv.Itoa(index))
	setAttr(main, "data-count", strconv.Itoa(count))

	card := element("div", "w-full h-full bg-white rounded-2xl shadow-lg overflow-hidden relative")
	if count == 0 {
		card.AppendChild(element("div", "slide-placeholder flex items-center justify-center h-full text-gray-400",
			text("This presentation has no slides")))
	} else {
		slide := doc.Slides[index]
		setAttr(main, "data-slide-key", viewer.SlideKey(slide, index))
		if slide.Effect != nil {
			data, err := json.Marshal(viewer.NewEffectEvent(slide, index))
			if err != nil {
				return nil, fmt.Errorf("encoding effect: %w", err)
			}
			setAttr(main, "data-effect", string(data))
		}
		card.AppendChild(Slide(slide))
	}
	card.AppendChild(footer(doc, index))

	frame := element("div", "w-[calc(100vh*16/9)] h-[calc(100vh-8rem)] max-w-[calc(100vw-8rem)] max-h-[calc((100vw-8rem)*9/16)] relative",
		card,
		navigation(index, count))
	main.AppendChild(frame)
	effects := element("div", "pointer-events-none fixed inset-0 overflow-hidden")
	setAttr(effects, "id", "effects")
	main.AppendChild(effects)

	return document(pageTitle(doc), main, element("script", "", text(pageScript))), nil
}

func pageTitle(doc *models.Document) string {
	if doc.DocumentName == "" {
		return "Presentation"
	}
	return doc.DocumentName
}

// document wraps body content into a complete HTML document
func document(title string, body ...*html.Node) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	charset := element("meta", "")
	setAttr(charset, "charset", "utf-8")
	viewport := element("meta", "")
	setAttr(viewport, "name", "viewport")
	setAttr(viewport, "content", "width=device-width, initial-scale=1")
	tailwind := element("script", "")
	setAttr(tailwind, "src", tailwindCDN)

	head := element("head", "",
		charset,
		viewport,
		element("title", "", text(title)),
		tailwind,
		element("style", "", text(pageStyle)))

	htmlEl := element("html", "", head, element("body", "", body...))
	setAttr(htmlEl, "lang", "en")
	root.AppendChild(htmlEl)
	return root
}

// cssValue drops characters that would end a declaration inside a style
// attribute
func cssValue(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\\':
			return -1
		}
		return r
	}, v)
}

func mainStyle(s models.Settings) string {
	var parts []string
	if s.FontSize != "" {
		parts = append(parts, "font-size: "+cssValue(s.FontSize))
	}
	if s.FontFamily != "" {
		parts = append(parts, "font-family: "+cssValue(s.FontFamily))
	}
	if s.Gradient.From != "" || s.Gradient.To != "" {
		parts = append(parts, fmt.Sprintf("background-image: linear-gradient(to bottom right, %s, %s)",
			cssValue(s.Gradient.From), cssValue(s.Gradient.To)))
	}
	return strings.Join(parts, "; ")
}

func footer(doc *models.Document, index int) *html.Node {
	settings := doc.Settings
	logo := element("div", "flex items-center gap-2")
	if settings.Footer.LogoURL != "" {
		img := element("img", "w-10 h-10")
		setAttr(img, "src", settings.Footer.LogoURL)
		setAttr(img, "alt", "Logo")
		logo.AppendChild(img)
	}

	position := "0/0"
	if len(doc.Slides) > 0 {
		position = fmt.Sprintf("%d/%d", index+1, len(doc.Slides))
	}

	f := element("footer", "absolute bottom-0 left-0 right-0 flex items-center justify-between px-6 py-3 bg-white/80 backdrop-blur-sm border-t rounded-b-2xl",
		logo,
		element("div", "flex items-center gap-4",
			element("div", "font-medium text-gray-700", text(doc.DocumentName)),
			element("div", "slide-counter text-sm bg-gray-100 px-3 py-1 rounded-full text-gray-600", text(position))),
		element("div", "footer-date text-sm text-gray-500", text(FooterDate(settings.Date, settings.Footer.DateFormat))))
	return f
}

func navLink(label, title string, target int, enabled bool) *html.Node {
	const class = "inline-flex items-center justify-center w-10 h-10 rounded-md border bg-white/90 backdrop-blur-sm"
	if !enabled {
		n := element("span", class+" opacity-50", text(label))
		setAttr(n, "aria-disabled", "true")
		setAttr(n, "title", title)
		return n
	}
	a := element("a", class+" hover:bg-white", text(label))
	setAttr(a, "href", "/view/"+strconv.Itoa(target))
	setAttr(a, "title", title)
	return a
}

func navigation(index, count int) *html.Node {
	nav := element("nav", "absolute bottom-16 left-1/2 -translate-x-1/2 flex items-center gap-3",
		navLink("←", "Previous slide (←)", index-1, index > 0),
		navLink("→", "Next slide (→ or Space)", index+1, index < count-1))
	return nav
}

const pageStyle = `
@keyframes slidedeck-fly {
  0% { transform: translateY(0) scale(1); opacity: 1; }
  100% { transform: translateY(-110vh) scale(1.4); opacity: 0; }
}
@keyframes slidedeck-fall {
  0% { transform: translateY(-10vh) rotate(0deg); opacity: 1; }
  100% { transform: translateY(110vh) rotate(720deg); opacity: 0; }
}
.slidedeck-emoji { position: absolute; bottom: -3rem; font-size: 2.5rem; animation-name: slidedeck-fly; animation-timing-function: ease-out; animation-fill-mode: forwards; }
.slidedeck-confetti { position: absolute; top: 0; width: 8px; height: 14px; animation-name: slidedeck-fall; animation-timing-function: ease-in; animation-fill-mode: forwards; }
`

const pageScript = `
(function () {
  var main = document.querySelector('main[data-index]');
  var index = parseInt(main.dataset.index, 10);
  var count = parseInt(main.dataset.count, 10);
  var layer = document.getElementById('effects');

  function go(i) {
    if (i >= 0 && i < count && i !== index) { location.href = '/view/' + i; }
  }

  function play(ev) {
    var o = ev.effect.options || {};
    if (ev.effect.type === 'flying-emoji') {
      (ev.delays || []).forEach(function (delay) {
        var el = document.createElement('span');
        el.className = 'slidedeck-emoji';
        el.textContent = o.emoji;
        el.style.left = (Math.random() * 90 + 5) + 'vw';
        el.style.animationDuration = o.duration + 's';
        el.style.animationDelay = delay + 's';
        el.addEventListener('animationend', function () { el.remove(); });
        layer.appendChild(el);
      });
    } else if (ev.effect.type === 'confetti') {
      for (var i = 0; i < o.particleCount; i++) {
        var el = document.createElement('div');
        el.className = 'slidedeck-confetti';
        el.style.background = o.colors[i % o.colors.length];
        el.style.left = (50 + (Math.random() - 0.5) * o.spread) + 'vw';
        el.style.animationDuration = (3000 / o.startVelocity) + 's';
        el.addEventListener('animationend', function (e) { e.target.remove(); });
        layer.appendChild(el);
      }
    }
  }

  var ws = null;
  try {
    ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
    ws.onopen = function () { ws.send(JSON.stringify({ type: 'goto', index: index })); };
    ws.onmessage = function (m) {
      var msg = JSON.parse(m.data);
      if (msg.type === 'slide' && msg.index !== index) { location.href = '/view/' + msg.index; }
      if (msg.type === 'reload') { location.reload(); }
    };
  } catch (e) {
    ws = null;
  }

  document.addEventListener('keydown', function (ev) {
    if (ev.key !== 'ArrowLeft' && ev.key !== 'ArrowRight' && ev.key !== ' ') { return; }
    ev.preventDefault();
    if (ws && ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify({ type: 'key', key: ev.key }));
      return;
    }
    go(ev.key === 'ArrowLeft' ? index - 1 : index + 1);
  });

  var key = main.dataset.slideKey || '';
  if (main.dataset.effect && sessionStorage.getItem('slidedeck.current') !== key) {
    play(JSON.parse(main.dataset.effect));
  }
  sessionStorage.setItem('slidedeck.current', key);
})();
`
