package main

import (
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/ppproto/gopppos/pppos"
)

// VERSION is injected by buildflags
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "pppos-bridge"
	myApp.Usage = "dial a PPP-over-serial link and bridge it to ICMP echo"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "device,d",
			Value: "/dev/ttyUSB0",
			Usage: "serial device to dial",
		},
		cli.IntFlag{
			Name:  "baud,b",
			Value: 115200,
			Usage: "serial baud rate, 0 to leave the device's current setting untouched",
		},
		cli.StringFlag{
			Name:  "username,u",
			Value: "",
			Usage: "PAP username, sent if the peer requests PAP authentication",
		},
		cli.StringFlag{
			Name:  "password,p",
			Value: "",
			Usage: "PAP password",
		},
		cli.IntFlag{
			Name:  "rxbuf",
			Value: 2048,
			Usage: "receive buffer size in bytes",
		},
		cli.IntFlag{
			Name:  "txbuf",
			Value: 2048,
			Usage: "transmit buffer size in bytes",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "suppress per-packet logging",
		},
		cli.BoolFlag{
			Name:  "echo",
			Usage: "reply to ICMP echo requests received over the link",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "",
			Usage: "log file to write to, empty to use stderr",
		},
		cli.StringFlag{
			Name:  "c",
			Value: "",
			Usage: "config from json file, which will override the command line parameters",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		config := Config{}
		config.Device = c.String("device")
		config.Baud = c.Int("baud")
		config.Username = c.String("username")
		config.Password = c.String("password")
		config.RxBuf = c.Int("rxbuf")
		config.TxBuf = c.Int("txbuf")
		config.Quiet = c.Bool("quiet")
		config.Echo = c.Bool("echo")
		config.Log = c.String("log")

		if c.String("c") != "" {
			err := parseJSONConfig(&config, c.String("c"))
			checkError(err)
		}

		if config.Log != "" {
			f, err := os.OpenFile(config.Log, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
			checkError(err)
			defer f.Close()
			log.SetOutput(f)
		}

		if config.RxBuf < 256 {
			color.Red("WARNING: rxbuf of %d bytes is very small, LCP/IPv4CP negotiation may fail", config.RxBuf)
		}
		if config.TxBuf < 256 {
			color.Red("WARNING: txbuf of %d bytes is very small, outgoing frames may not fit", config.TxBuf)
		}
		if config.Password != "" && config.Username == "" {
			color.Red("WARNING: password set without a username, PAP will send an empty username")
		}

		log.Println("device:", config.Device)
		log.Println("baud:", config.Baud)
		log.Println("rxbuf:", config.RxBuf)
		log.Println("txbuf:", config.TxBuf)
		log.Println("echo:", config.Echo)

		port, err := openSerial(config.Device, config.Baud)
		checkError(err)
		defer port.Close()

		return runBridge(config, port)
	}

	err := myApp.Run(os.Args)
	checkError(err)
}

// runBridge drives the pppos session against port until it returns an
// unrecoverable I/O error.
func runBridge(config Config, port serialPort) error {
	ppCfg := pppos.Config{
		Username: []byte(config.Username),
		Password: []byte(config.Password),
	}
	ppp := pppos.New(ppCfg, make([]byte, config.RxBuf))

	if err := ppp.Open(); err != nil {
		return err
	}

	txBuf := make([]byte, config.TxBuf)
	readBuf := make([]byte, config.RxBuf)
	var pending []byte

	for {
		res := ppp.Poll(txBuf)
		switch res.Action {
		case pppos.ActionTransmit:
			if _, err := port.Write(txBuf[:res.N]); err != nil {
				return err
			}
		case pppos.ActionReceived:
			handlePacket(config, ppp, res.Received, txBuf, port)
		}

		if len(pending) == 0 {
			n, err := port.Read(readBuf)
			if err != nil {
				return err
			}
			pending = readBuf[:n]
		}

		n := ppp.Consume(pending)
		pending = pending[n:]
	}
}

// handlePacket logs a decoded IPv4 packet and, when echo replies are
// enabled, answers ICMP echo requests in place.
func handlePacket(config Config, ppp *pppos.PPPoS, pkt []byte, txBuf []byte, port serialPort) {
	if !config.Quiet {
		log.Printf("received packet: % x", pkt)
	}

	if !config.Echo {
		return
	}

	reply, ok := icmpEcho(pkt)
	if !ok {
		return
	}

	n, err := ppp.Send(reply, txBuf)
	if err != nil {
		log.Printf("failed to encode ping reply: %v", err)
		return
	}
	if _, err := port.Write(txBuf[:n]); err != nil {
		log.Printf("failed to write ping reply: %v", err)
		return
	}
	if !config.Quiet {
		log.Println("replied to ping")
	}
}

func checkError(err error) {
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(-1)
	}
}
