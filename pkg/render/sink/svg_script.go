package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/agentscape/pkg/scatter/viewport"
)

const pointCSS = `
    .point circle { transition: stroke-width 0.15s ease; cursor: pointer; }
    .point.highlight circle { stroke-width: 3; }
    .popup { transition: opacity 0.15s ease; }
    .popup[visibility="hidden"] { opacity: 0; }
    .popup[visibility="visible"] { opacity: 1; }
    .detail-close, .detail-link { cursor: pointer; }`

const popupJS = `
    document.querySelectorAll('.point').forEach(el => {
      const popup = document.querySelector('.popup[data-for="' + el.id + '"]');
      if (!popup) return;
      const circle = el.querySelector('circle');
      el.addEventListener('mouseenter', () => {
        el.classList.add('highlight');
        const r = +circle.getAttribute('r');
        const box = popup.getBBox();
        let x = +circle.getAttribute('cx') + r + 8;
        let y = +circle.getAttribute('cy') - box.height / 2;
        if (x + box.width > vb.width - 10) x = +circle.getAttribute('cx') - r - 8 - box.width;
        y = Math.max(10, Math.min(y, vb.height - box.height - 10));
        popup.setAttribute('transform', 'translate(' + x.toFixed(1) + ',' + y.toFixed(1) + ')');
        popup.setAttribute('visibility', 'visible');
      });
      el.addEventListener('mouseleave', () => {
        el.classList.remove('highlight');
        popup.setAttribute('visibility', 'hidden');
      });
    });`

const detailJS = `
    function closeDetails() {
      document.querySelectorAll('.detail').forEach(d => d.setAttribute('visibility', 'hidden'));
    }
    document.querySelectorAll('.point').forEach(el => {
      const detail = document.querySelector('.detail[data-for="' + el.id + '"]');
      if (!detail) return;
      el.addEventListener('click', ev => {
        if (svg.dataset.dragged === '1') return;
        ev.stopPropagation();
        closeDetails();
        detail.setAttribute('visibility', 'visible');
      });
    });
    document.querySelectorAll('.detail-close').forEach(el => el.addEventListener('click', closeDetails));
    svg.querySelector('.background').addEventListener('click', closeDetails);
    document.addEventListener('keydown', ev => { if (ev.key === 'Escape') closeDetails(); });`

// zoomJS mirrors viewport.View: screen = base*zoom + pan, zooming about the
// cursor and clamped to the view's zoom range.
const zoomJS = `
    const content = document.getElementById('plot-content');
    const view = { zoom: %g, panX: %g, panY: %g, min: %g, max: %g };
    function place() {
      content.querySelectorAll('[data-bx]').forEach(el => {
        const v = +el.dataset.bx * view.zoom + view.panX + +(el.dataset.ox || 0);
        el.dataset.xa.split(' ').forEach(a => el.setAttribute(a, v.toFixed(1)));
      });
      content.querySelectorAll('[data-by]').forEach(el => {
        const v = +el.dataset.by * view.zoom + view.panY + +(el.dataset.oy || 0);
        el.dataset.ya.split(' ').forEach(a => el.setAttribute(a, v.toFixed(1)));
      });
    }
    function toSVG(ev) {
      const pt = svg.createSVGPoint();
      pt.x = ev.clientX; pt.y = ev.clientY;
      return pt.matrixTransform(svg.getScreenCTM().inverse());
    }
    svg.addEventListener('wheel', ev => {
      ev.preventDefault();
      const c = toSVG(ev);
      const next = Math.min(Math.max(view.zoom * (ev.deltaY < 0 ? 1.1 : 1 / 1.1), view.min), view.max);
      view.panX = c.x - (c.x - view.panX) * next / view.zoom;
      view.panY = c.y - (c.y - view.panY) * next / view.zoom;
      view.zoom = next;
      place();
    }, { passive: false });
    let drag = null;
    svg.addEventListener('mousedown', ev => { drag = toSVG(ev); svg.dataset.dragged = '0'; });
    svg.addEventListener('mousemove', ev => {
      if (!drag) return;
      const p = toSVG(ev);
      if (Math.abs(p.x - drag.x) + Math.abs(p.y - drag.y) > 2) svg.dataset.dragged = '1';
      view.panX += p.x - drag.x; view.panY += p.y - drag.y;
      drag = p;
      place();
    });
    window.addEventListener('mouseup', () => { drag = null; setTimeout(() => { svg.dataset.dragged = '0'; }, 0); });
    svg.addEventListener('dblclick', () => { view.zoom = 1; view.panX = 0; view.panY = 0; place(); });`

func renderInteraction(buf *bytes.Buffer, r *svgRenderer, v viewport.View) {
	if !r.popups && !r.details && !r.interactive {
		return
	}
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", pointCSS)
	buf.WriteString("  <script type=\"text/javascript\"><![CDATA[\n")
	buf.WriteString("    const svg = document.querySelector('svg');\n    const vb = svg.viewBox.baseVal;")
	if r.interactive {
		minZoom, maxZoom := v.MinZoom, v.MaxZoom
		if minZoom <= 0 {
			minZoom = viewport.DefaultMinZoom
		}
		if maxZoom <= 0 {
			maxZoom = viewport.DefaultMaxZoom
		}
		zoom := v.Zoom
		if zoom <= 0 {
			zoom = 1
		}
		fmt.Fprintf(buf, zoomJS, zoom, v.PanX, v.PanY, minZoom, maxZoom)
	}
	if r.popups {
		buf.WriteString(popupJS)
	}
	if r.details {
		buf.WriteString(detailJS)
	}
	buf.WriteString("\n  ]]></script>\n")
}
