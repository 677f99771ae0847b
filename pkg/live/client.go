package live

// ClientScript is appended to the served page. It forwards events to the
// server and applies patches from /ws.
const ClientScript = `
<script>
(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;
    var events = ['click', 'dblclick', 'input', 'change', 'submit', 'keydown', 'keyup', 'focus', 'blur'];

    function pathOf(el) {
        var path = [];
        while (el && el.parentElement) {
            path.unshift(Array.prototype.indexOf.call(el.parentElement.children, el));
            el = el.parentElement;
        }
        if (el) {
            path.unshift(0);
        }
        return path;
    }

    function nodeAt(path) {
        var n = document;
        for (var i = 0; i < path.length; i++) {
            n = n.children[path[i]];
            if (!n) {
                return null;
            }
        }
        return n;
    }

    // setText replaces the text between the slot-th and next non-text child,
    // creating a text node if the browser dropped an empty one.
    function setText(el, slot, value) {
        var nodes = Array.prototype.slice.call(el.childNodes);
        var seen = 0, first = null, i;
        for (i = 0; i < nodes.length; i++) {
            if (nodes[i].nodeType !== Node.TEXT_NODE) {
                if (seen === slot) {
                    break;
                }
                seen++;
                continue;
            }
            if (seen !== slot) {
                continue;
            }
            if (first) {
                el.removeChild(nodes[i]);
            } else {
                first = nodes[i];
            }
        }
        if (first) {
            first.nodeValue = value;
        } else if (value !== '') {
            el.insertBefore(document.createTextNode(value), i < nodes.length ? nodes[i] : null);
        }
    }

    function apply(msg) {
        var el = nodeAt(msg.path || []);
        if (!el) {
            return;
        }
        switch (msg.attr) {
            case 'text':
                setText(el, msg.slot || 0, msg.value);
                break;
            case 'innerHTML':
                el.innerHTML = msg.value;
                break;
            case 'textContent':
                el.textContent = msg.value;
                break;
            case 'value':
                if (el !== document.activeElement || el.value !== msg.value) {
                    el.value = msg.value;
                }
                break;
            default:
                el.setAttribute(msg.attr, msg.value);
        }
    }

    function send(el, type, value) {
        fetch('/api/dispatch', {
            method: 'POST',
            headers: {'Content-Type': 'application/json'},
            body: JSON.stringify({path: pathOf(el), event: type, value: value})
        }).catch(function(err) {
            console.error('[vbind] dispatch failed:', err);
        });
    }

    function handlerFor(el, type) {
        for (; el && el.hasAttribute; el = el.parentElement) {
            if (el.hasAttribute('@' + type) || el.hasAttribute('v-on:' + type)) {
                return el;
            }
        }
        return null;
    }

    events.forEach(function(type) {
        document.addEventListener(type, function(e) {
            var t = e.target;
            var value = t && t.value !== undefined ? String(t.value) : '';
            if ((type === 'input' || type === 'change') && t.hasAttribute && t.hasAttribute('v-model')) {
                send(t, type, value);
                return;
            }
            var el = handlerFor(t, type);
            if (!el) {
                return;
            }
            if (type === 'submit') {
                e.preventDefault();
            }
            send(el, type, value);
        }, true);
    });

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');

        ws.onopen = function() {
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            switch (msg.type) {
                case 'hello':
                    console.log('[vbind] live connected as', msg.id);
                    break;
                case 'patch':
                    apply(msg);
                    break;
                case 'error':
                    console.error('[vbind]', msg.error);
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>
`
